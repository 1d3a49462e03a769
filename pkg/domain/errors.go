package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidState is returned when a state cannot be registered (e.g. empty name).
	ErrInvalidState = errors.New("invalid state")

	// ErrNoInitialState is matched by NoInitialStateError.
	ErrNoInitialState = errors.New("no initial state set")

	// ErrTransitionTimeout is matched by TransitionTimeoutError.
	ErrTransitionTimeout = errors.New("transition timeout")

	// ErrCancelled is matched by CancelledError.
	ErrCancelled = errors.New("run cancelled")

	// ErrTransitionLimit is matched by TransitionLimitError.
	ErrTransitionLimit = errors.New("transition limit exceeded")

	// ErrReportNotFound is returned when no run report exists for a session.
	ErrReportNotFound = errors.New("run report not found")
)

// DuplicateStateError is returned when a state name is registered twice.
type DuplicateStateError struct {
	Name string
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("duplicate state %q", e.Name)
}

// MissingStateError is returned by validation when a transition targets an
// undeclared state. An empty Source means the initial state reference is dangling.
type MissingStateError struct {
	Source string
	Target string
}

func (e *MissingStateError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("initial state %q is not defined", e.Target)
	}
	return fmt.Sprintf("state %q transitions to undefined state %q", e.Source, e.Target)
}

// NoInitialStateError is returned when execution starts without an initial state.
type NoInitialStateError struct{}

func (e *NoInitialStateError) Error() string {
	return ErrNoInitialState.Error()
}

func (e *NoInitialStateError) Is(target error) bool {
	return target == ErrNoInitialState
}

// TransitionTimeoutError is returned when none of the candidates of State
// became ready within its wait budget.
type TransitionTimeoutError struct {
	State      string
	Candidates []string
	Elapsed    time.Duration
	Budget     time.Duration
}

func (e *TransitionTimeoutError) Error() string {
	return fmt.Sprintf("no transition from %q became ready within %s (elapsed %s, candidates: %s)",
		e.State, e.Budget, e.Elapsed.Round(time.Millisecond), strings.Join(e.Candidates, ", "))
}

func (e *TransitionTimeoutError) Is(target error) bool {
	return target == ErrTransitionTimeout
}

// CancelledError is returned when the run context is done while searching
// for a transition out of State.
type CancelledError struct {
	State string
	Cause error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("run cancelled in state %q: %v", e.State, e.Cause)
}

func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// TransitionLimitError is returned when a run performs more transitions than allowed.
type TransitionLimitError struct {
	State string
	Limit int
}

func (e *TransitionLimitError) Error() string {
	return fmt.Sprintf("transition limit of %d exceeded leaving state %q", e.Limit, e.State)
}

func (e *TransitionLimitError) Is(target error) bool {
	return target == ErrTransitionLimit
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
