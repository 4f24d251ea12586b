package validate

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/producturl"
)

type FieldConfig struct {
	ValidateDelay time.Duration
	TrimDelay     time.Duration
}

// Field is one product-link input: the displayed value plus its validator and
// auto-corrector, each holding its own timer.
type Field struct {
	value     string
	validator *Validator
	corrector *AutoCorrector
	log       *zap.Logger
}

func NewField(cfg FieldConfig, opts ...Option) *Field {
	o := buildOptions(opts)
	return &Field{
		validator: NewValidator(cfg.ValidateDelay, opts...),
		corrector: NewAutoCorrector(cfg.TrimDelay, opts...),
		log:       o.log,
	}
}

func (f *Field) Value() string                { return f.value }
func (f *Field) State() model.ValidationState { return f.validator.State() }

// Ready reports whether generation may start from the current value.
func (f *Field) Ready() bool {
	return f.validator.State().Status == model.ValidationValid
}

// Canonical is the value to hand to generation.
func (f *Field) Canonical() string {
	return producturl.Canonicalize(f.value)
}

// SetValue records a user edit and (re)schedules both timers.
func (f *Field) SetValue(raw string) tea.Cmd {
	if raw == f.value {
		return nil
	}
	f.value = raw
	return tea.Batch(f.validator.OnInput(raw), f.corrector.OnInput(raw))
}

// Paste records pasted input and corrects it right away.
func (f *Field) Paste(raw string) tea.Cmd {
	f.value = raw
	f.corrector.Cancel()
	if cmd, ok := f.correct("paste"); ok {
		return cmd
	}
	return f.validator.OnInput(raw)
}

// Blur corrects the value immediately when focus leaves the field.
func (f *Field) Blur() tea.Cmd {
	f.corrector.Cancel()
	cmd, _ := f.correct("blur")
	return cmd
}

func (f *Field) Update(msg tea.Msg) tea.Cmd {
	if f.corrector.Fired(msg) {
		cmd, _ := f.correct("timer")
		return cmd
	}
	return f.validator.Update(msg)
}

// Teardown cancels both timers; pending messages from them are then ignored.
func (f *Field) Teardown() {
	f.validator.Stop()
	f.corrector.Cancel()
}

func (f *Field) correct(trigger string) (tea.Cmd, bool) {
	canonical, changed := Correct(f.value)
	if !changed {
		return nil, false
	}
	f.log.Debug("value auto-corrected", zap.String("trigger", trigger), zap.String("value", canonical))
	f.value = canonical
	return f.validator.Revalidate(canonical), true
}
