package dsl

import (
	"fmt"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/registry"
)

// Builder manages the graph construction.
type Builder struct {
	states  map[string]*StateBuilder
	order   []string
	initial string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		states: make(map[string]*StateBuilder),
	}
}

// Add creates a new state in the graph.
// If the state already exists, it returns the existing builder.
// The first state added becomes the initial state unless Start is called.
func (b *Builder) Add(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{
		state: domain.State{
			Name: name,
		},
		builder: b,
	}
	b.states[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Start sets the initial state.
func (b *Builder) Start(name string) *Builder {
	b.initial = name
	return b
}

// Build compiles the graph into a validated Registry.
func (b *Builder) Build() (*registry.Registry, error) {
	reg := registry.NewRegistry()
	for _, name := range b.order {
		if err := reg.AddState(b.states[name].state); err != nil {
			return nil, fmt.Errorf("failed to add state: %w", err)
		}
	}

	initial := b.initial
	if initial == "" && len(b.order) > 0 {
		initial = b.order[0]
	}
	if initial != "" {
		reg.SetInitialState(initial)
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
