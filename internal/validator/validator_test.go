package validator

import (
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, initial string, states ...domain.State) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	for _, s := range states {
		require.NoError(t, reg.AddState(s))
	}
	reg.SetInitialState(initial)
	return reg
}

func TestValidateGraph(t *testing.T) {
	// start -> a -> b (end)
	t.Run("Valid", func(t *testing.T) {
		reg := build(t, "start",
			domain.State{Name: "start", Transitions: []string{"a"}},
			domain.State{Name: "a", Transitions: []string{"b"}},
			domain.State{Name: "b"},
		)
		warnings, err := ValidateGraph(reg)
		assert.NoError(t, err)
		assert.Empty(t, warnings)
	})

	// start -> ghost, orphan
	t.Run("Broken And Unreachable", func(t *testing.T) {
		reg := build(t, "start",
			domain.State{Name: "start", Transitions: []string{"ghost"}},
			domain.State{Name: "orphan", Transitions: []string{"start"}},
		)
		warnings, err := ValidateGraph(reg)

		var missing *domain.MissingStateError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "ghost", missing.Target)
		assert.Equal(t, []string{`state "orphan" is unreachable from "start"`}, warnings)
	})
}

func TestUnreachable_Cycles(t *testing.T) {
	reg := build(t, "a",
		domain.State{Name: "a", Transitions: []string{"b"}},
		domain.State{Name: "b", Transitions: []string{"a", "c"}},
		domain.State{Name: "c"},
		domain.State{Name: "d"},
		domain.State{Name: "e", Transitions: []string{"d"}},
	)
	assert.Equal(t, []string{"d", "e"}, Unreachable(reg))
}

func TestUnreachable_MissingInitial(t *testing.T) {
	reg := build(t, "ghost", domain.State{Name: "a"})
	assert.Equal(t, []string{"a"}, Unreachable(reg))
}
