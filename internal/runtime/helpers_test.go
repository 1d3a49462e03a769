package runtime_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/registry"
	"github.com/stretchr/testify/require"
)

// newRegistry builds a registry from states, starting at initial ("" leaves it unset).
func newRegistry(t *testing.T, initial string, states ...domain.State) *registry.Registry {
	t.Helper()
	r := registry.NewRegistry()
	for _, s := range states {
		require.NoError(t, r.AddState(s))
	}
	if initial != "" {
		r.SetInitialState(initial)
	}
	return r
}

// flag is a Condition backed by an atomic boolean.
type flag struct {
	v     atomic.Bool
	calls atomic.Int32
}

func (f *flag) Ready(context.Context, domain.Driver) (bool, error) {
	f.calls.Add(1)
	return f.v.Load(), nil
}

func never() domain.Page {
	return domain.ConditionFunc(func(context.Context, domain.Driver) (bool, error) {
		return false, nil
	})
}

func always() domain.Page {
	return domain.Always()
}

// recorder collects entered state names through the enter hook.
type recorder struct {
	entered []string
}

func (r *recorder) hook(_ context.Context, state string) error {
	r.entered = append(r.entered, state)
	return nil
}
