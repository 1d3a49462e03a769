package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Registry manages the states of a session graph.
// States may be added in any order; references between them are only checked by Validate.
type Registry struct {
	mu      sync.RWMutex
	states  map[string]domain.State
	order   []string
	initial string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]domain.State),
	}
}

// AddState registers a state.
// Returns *domain.DuplicateStateError if a state with the same name exists.
// A Ready page holding a typed nil (e.g. a nil *LoginPage) is rejected.
func (r *Registry) AddState(state domain.State) error {
	if state.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidState)
	}
	if isNilValue(state.Ready) {
		return fmt.Errorf("%w: state %q has a nil %T page; leave Ready unset instead", domain.ErrInvalidState, state.Name, state.Ready)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.states[state.Name]; exists {
		return &domain.DuplicateStateError{Name: state.Name}
	}

	// Own the transitions slice so later edits by the caller don't leak in.
	state.Transitions = append([]string(nil), state.Transitions...)
	r.states[state.Name] = state
	r.order = append(r.order, state.Name)
	return nil
}

// SetInitialState records the starting state. The state does not need to exist yet.
func (r *Registry) SetInitialState(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.initial = name
}

// InitialState returns the configured starting state, or "" if unset.
func (r *Registry) InitialState() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initial
}

// State looks up a state by name.
func (r *Registry) State(name string) (domain.State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[name]
	return s, ok
}

// Names returns the registered state names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// States returns the registered states in insertion order.
func (r *Registry) States() []domain.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.State, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.states[name])
	}
	return out
}

// Len returns the number of registered states.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Validate checks referential integrity and returns the first problem found as a
// *domain.MissingStateError. States are checked in insertion order and their
// targets in declared order, so the reported error is deterministic.
func (r *Registry) Validate() error {
	errs := r.collect(1)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidateAll is like Validate but reports every dangling reference at once
// as a *domain.AggregateError.
func (r *Registry) ValidateAll() error {
	errs := r.collect(0)
	if len(errs) > 0 {
		return &domain.AggregateError{Errors: errs}
	}
	return nil
}

// collect gathers up to limit missing-state errors (0 means no limit).
func (r *Registry) collect(limit int) []error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	full := func() bool { return limit > 0 && len(errs) >= limit }

	for _, name := range r.order {
		for _, target := range r.states[name].Transitions {
			if _, ok := r.states[target]; !ok {
				errs = append(errs, &domain.MissingStateError{Source: name, Target: target})
				if full() {
					return errs
				}
			}
		}
	}

	if r.initial != "" {
		if _, ok := r.states[r.initial]; !ok {
			errs = append(errs, &domain.MissingStateError{Target: r.initial})
		}
	}
	return errs
}

// isNilValue reports whether p is a non-nil interface wrapping a nil value.
func isNilValue(p domain.Page) bool {
	if p == nil {
		return false
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
