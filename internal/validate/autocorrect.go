package validate

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storefront-wizard/internal/producturl"
	"storefront-wizard/internal/timer"
)

// AutoCorrector waits for the field to go quiet and then swaps a value with
// trailing tracking content for its canonical form. The delay is longer than
// the validation debounce so the pasted text stays visible for a moment.
type AutoCorrector struct {
	slot  *timer.Slot
	delay time.Duration
	log   *zap.Logger
}

func NewAutoCorrector(delay time.Duration, opts ...Option) *AutoCorrector {
	o := buildOptions(opts)
	return &AutoCorrector{
		slot:  timer.NewSlot("autocorrect"),
		delay: durationOr(delay, DefaultTrimDelay),
		log:   o.log,
	}
}

// OnInput arms the trim timer when raw carries content past its page
// extension and disarms it otherwise.
func (a *AutoCorrector) OnInput(raw string) tea.Cmd {
	if !producturl.HasTrailingAfterExtension(raw) {
		a.slot.Stop()
		return nil
	}
	a.log.Debug("auto-correction scheduled", zap.Duration("delay", a.delay))
	return a.slot.Start(a.delay)
}

// Fired reports whether msg is the current firing of the trim timer.
func (a *AutoCorrector) Fired(msg tea.Msg) bool {
	return a.slot.Accept(msg)
}

func (a *AutoCorrector) Pending() bool { return a.slot.Pending() }

func (a *AutoCorrector) Cancel() {
	a.slot.Stop()
}

// Correct returns the canonical form of current and whether it differs from
// what is displayed.
func Correct(current string) (string, bool) {
	if strings.TrimSpace(current) == "" {
		return current, false
	}
	canonical := producturl.Canonicalize(current)
	return canonical, canonical != current
}
