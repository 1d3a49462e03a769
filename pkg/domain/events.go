package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStateEnter EventType = "state_enter"
	EventTransition EventType = "transition"
	EventTimeout    EventType = "timeout"
	EventTerminate  EventType = "terminate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StateEvent is emitted when a state is entered, times out or terminates the run.
type StateEvent struct {
	EventBase
	State      string        `json:"state"`
	Candidates []string      `json:"candidates,omitempty"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`
}

// TransitionEvent is emitted when a candidate is found ready.
type TransitionEvent struct {
	EventBase
	From     string        `json:"from"`
	To       string        `json:"to"`
	Attempts int           `json:"attempts"`
	Waited   time.Duration `json:"waited"`
}

// EnterHook is called with the name of every entered state, before its Action.
// A non-nil error aborts the run and is returned unchanged.
type EnterHook func(ctx context.Context, state string) error

// LifecycleHooks defines observer callbacks for engine observability.
// Unlike EnterHook they cannot influence control flow.
type LifecycleHooks struct {
	OnStateEnter func(context.Context, *StateEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnTimeout    func(context.Context, *StateEvent)
	OnTerminate  func(context.Context, *StateEvent)
}
