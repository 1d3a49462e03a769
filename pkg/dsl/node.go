package dsl

import (
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	state   domain.State
	builder *Builder
}

// When sets the page (ready condition) that gates entry into the state.
func (s *StateBuilder) When(page domain.Page) *StateBuilder {
	s.state.Ready = page
	return s
}

// Do sets the action run on entry.
func (s *StateBuilder) Do(action domain.Action) *StateBuilder {
	s.state.Action = action
	return s
}

// Go appends candidate successors, in priority order.
func (s *StateBuilder) Go(targets ...string) *StateBuilder {
	s.state.Transitions = append(s.state.Transitions, targets...)
	return s
}

// Wait sets the wait budget for finding a ready successor.
func (s *StateBuilder) Wait(d time.Duration) *StateBuilder {
	s.state.WaitBudget = d
	return s
}

// Terminal marks the state as the end of the flow.
func (s *StateBuilder) Terminal() *StateBuilder {
	s.state.Transitions = nil
	return s
}

// Add is a shortcut to start the next state on the same builder.
func (s *StateBuilder) Add(name string) *StateBuilder {
	return s.builder.Add(name)
}

// Build returns the underlying domain.State.
func (s *StateBuilder) Build() domain.State {
	return s.state
}
