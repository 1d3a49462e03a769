package domain

import "time"

// State is a named node in a session graph.
type State struct {
	// Name uniquely identifies the state within a registry.
	Name string

	// Ready gates entry into this state. A nil Page means the state is
	// trivially ready and transitions into it succeed immediately.
	Ready Page

	// Action runs once per entry. Optional.
	Action Action

	// Transitions lists candidate successors in priority order.
	// An empty list marks a terminal state.
	Transitions []string

	// WaitBudget bounds the search for a ready successor.
	// Zero means the engine default.
	WaitBudget time.Duration
}

// Terminal reports whether the state has no successors.
func (s State) Terminal() bool {
	return len(s.Transitions) == 0
}

// Budget returns the effective wait budget, falling back to def.
func (s State) Budget(def time.Duration) time.Duration {
	if s.WaitBudget > 0 {
		return s.WaitBudget
	}
	if def > 0 {
		return def
	}
	return DefaultWaitBudget
}

// Phase is the internal execution phase of a run.
type Phase string

const (
	PhaseNotStarted         Phase = "not_started"
	PhaseEntering           Phase = "entering"
	PhaseAwaitingTransition Phase = "awaiting_transition"
	PhaseTerminated         Phase = "terminated"
)

// RunReport summarises a single execution.
// It is returned on success and, partially filled, alongside errors.
type RunReport struct {
	Initial     string        `json:"initial"`
	Final       string        `json:"final"`
	Path        []string      `json:"path"`
	Transitions int           `json:"transitions"`
	Elapsed     time.Duration `json:"elapsed"`
	Terminated  bool          `json:"terminated"`
}
