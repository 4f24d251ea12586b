package model

import "fmt"

type ValidationStatus string

const (
	ValidationIdle       ValidationStatus = "idle"
	ValidationValidating ValidationStatus = "validating"
	ValidationValid      ValidationStatus = "valid"
	ValidationInvalid    ValidationStatus = "invalid"
)

// ValidationState is owned by exactly one validator per input field.
type ValidationState struct {
	Status  ValidationStatus `json:"status"`
	Kind    UrlKind          `json:"kind"`
	Message string           `json:"message,omitempty"`
}

func (s ValidationState) Terminal() bool {
	return s.Status == ValidationValid || s.Status == ValidationInvalid
}

var allowedValidation = map[ValidationStatus]map[ValidationStatus]bool{
	ValidationIdle: {
		ValidationIdle:       true,
		ValidationValidating: true,
	},
	ValidationValidating: {
		ValidationIdle:       true,
		ValidationValidating: true,
		ValidationValid:      true,
		ValidationInvalid:    true,
	},
	ValidationValid: {
		ValidationIdle:       true,
		ValidationValidating: true,
	},
	ValidationInvalid: {
		ValidationIdle:       true,
		ValidationValidating: true,
	},
}

func CanTransitionValidation(from, to ValidationStatus) bool {
	next, ok := allowedValidation[from]
	if !ok {
		return false
	}
	return next[to]
}

// TransitionValidation moves state to next, rejecting moves outside the table
// and a Valid state without a recognized kind.
func TransitionValidation(state *ValidationState, next ValidationState) error {
	if !CanTransitionValidation(state.Status, next.Status) {
		return fmt.Errorf("invalid validation transition: %q -> %q", state.Status, next.Status)
	}
	if next.Status == ValidationValid && !next.Kind.Known() {
		return fmt.Errorf("valid state requires a known kind, got %q", next.Kind)
	}
	*state = next
	return nil
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

var allowedRun = map[RunStatus]map[RunStatus]bool{
	"": {
		RunRunning: true,
	},
	RunRunning: {
		RunSucceeded: true,
		RunFailed:    true,
		RunCancelled: true,
	},
	RunSucceeded: {},
	RunFailed:    {},
	RunCancelled: {},
}

func IsKnownRunStatus(status RunStatus) bool {
	_, ok := allowedRun[status]
	return ok
}

func CanTransitionRun(from, to RunStatus) bool {
	next, ok := allowedRun[from]
	if !ok {
		return false
	}
	return next[to]
}

func (s RunStatus) Terminal() bool {
	return s == RunSucceeded || s == RunFailed || s == RunCancelled
}

func TransitionRun(run *GenerationRun, to RunStatus) error {
	from := run.Status
	if !CanTransitionRun(from, to) {
		return fmt.Errorf("invalid run status transition: %q -> %q (run_id=%s)", from, to, run.ID)
	}
	run.Status = to
	return nil
}
