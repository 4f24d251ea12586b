// Package validate turns keystrokes in a product-link field into a debounced
// validation status and silently cleans pasted tracking junk off the value.
package validate

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/producturl"
	"storefront-wizard/internal/timer"
)

// Validator owns the validation state of one input field. Only the most
// recent input's validation ever completes.
type Validator struct {
	state   model.ValidationState
	slot    *timer.Slot
	delay   time.Duration
	pending string
	skip    bool
	observe func(model.ValidationState)
	log     *zap.Logger
}

func NewValidator(delay time.Duration, opts ...Option) *Validator {
	o := buildOptions(opts)
	return &Validator{
		state:   model.ValidationState{Status: model.ValidationIdle, Kind: model.KindUnknown},
		slot:    timer.NewSlot("validate"),
		delay:   durationOr(delay, DefaultValidateDelay),
		observe: o.observe,
		log:     o.log,
	}
}

func (v *Validator) State() model.ValidationState { return v.state }

// OnInput is called on every keystroke.
func (v *Validator) OnInput(raw string) tea.Cmd {
	return v.schedule(raw, false)
}

// Revalidate validates a value that was already trimmed by auto-correction,
// so trailing-content suppression is skipped.
func (v *Validator) Revalidate(raw string) tea.Cmd {
	return v.schedule(raw, true)
}

func (v *Validator) schedule(raw string, skip bool) tea.Cmd {
	if strings.TrimSpace(raw) == "" {
		v.slot.Stop()
		v.pending = ""
		v.skip = false
		v.set(model.ValidationState{Status: model.ValidationIdle, Kind: model.KindUnknown})
		return nil
	}
	v.pending = raw
	v.skip = skip
	v.set(model.ValidationState{Status: model.ValidationValidating, Kind: model.KindUnknown, Message: MsgChecking})
	v.log.Debug("validation scheduled", zap.Duration("delay", v.delay), zap.Bool("skip_suppression", skip))
	return v.slot.Start(v.delay)
}

// Update consumes the debounce timer's message. Anything else is ignored.
func (v *Validator) Update(msg tea.Msg) tea.Cmd {
	if !v.slot.Accept(msg) {
		if v.slot.Owns(msg) {
			v.log.Debug("stale validation timer dropped")
		}
		return nil
	}
	v.set(Evaluate(v.pending, v.skip))
	return nil
}

func (v *Validator) Stop() {
	v.slot.Stop()
}

func (v *Validator) set(next model.ValidationState) {
	if next == v.state {
		return
	}
	if err := model.TransitionValidation(&v.state, next); err != nil {
		v.log.Error("validation transition rejected", zap.Error(err))
		return
	}
	v.log.Debug("validation state",
		zap.String("status", string(next.Status)),
		zap.String("kind", string(next.Kind)),
	)
	if v.observe != nil {
		v.observe(v.state)
	}
}

// Evaluate decides the status for raw once the debounce delay has passed.
func Evaluate(raw string, skipSuppression bool) model.ValidationState {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.ValidationState{Status: model.ValidationIdle, Kind: model.KindUnknown}
	}

	// Auto-correction is about to cut the trailing junk; report the spinner
	// rather than an error in the meantime.
	if !skipSuppression && producturl.HasTrailingAfterExtension(s) {
		cut, _ := producturl.Truncate(s)
		if kind := producturl.Classify(cut).Kind; kind.Known() {
			return model.ValidationState{Status: model.ValidationValidating, Kind: kind, Message: MsgChecking}
		}
	}

	canonical := producturl.Canonicalize(s)
	res := producturl.Classify(canonical)
	switch res.Kind {
	case model.KindAliExpress:
		if hasPageExtension(canonical) {
			return valid(res.Kind)
		}
		return invalid(res.Kind, MsgAliExpressMissingExtension)
	case model.KindAmazon:
		return valid(res.Kind)
	case model.KindShopify:
		if strings.Contains(strings.ToLower(canonical), "/products/") {
			return valid(res.Kind)
		}
		return invalid(res.Kind, MsgStoreMissingProduct)
	}

	switch {
	case producturl.MatchesAliExpressPartial(s):
		return invalid(model.KindUnknown, MsgAliExpressMissingExtension)
	case producturl.IsAliExpressHost(s):
		return invalid(model.KindUnknown, MsgAliExpressFormat)
	case producturl.IsAmazonHost(s):
		return invalid(model.KindUnknown, MsgAmazonMissingID)
	case producturl.HasCollectionPath(s):
		return invalid(model.KindUnknown, MsgStoreMissingProduct)
	case producturl.IsBareDomain(s):
		return invalid(model.KindUnknown, MsgHomepage)
	default:
		return invalid(model.KindUnknown, MsgUnsupported)
	}
}

func valid(kind model.UrlKind) model.ValidationState {
	return model.ValidationState{Status: model.ValidationValid, Kind: kind, Message: validMessage(kind)}
}

func invalid(kind model.UrlKind, msg string) model.ValidationState {
	return model.ValidationState{Status: model.ValidationInvalid, Kind: kind, Message: msg}
}

func hasPageExtension(s string) bool {
	l := strings.ToLower(s)
	return strings.HasSuffix(l, ".html") || strings.HasSuffix(l, ".htm")
}
