package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_EnterHook_ReplaceSemantics(t *testing.T) {
	reg := newRegistry(t, "start",
		domain.State{Name: "start", Transitions: []string{"step_2"}},
		domain.State{Name: "step_2"},
	)

	first := &recorder{}
	second := &recorder{}

	engine := runtime.NewEngine(reg, runtime.WithEnterHook(first.hook))
	engine.OnEnterState(second.hook)

	_, err := engine.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, first.entered, "replaced hook must not be called")
	assert.Equal(t, []string{"start", "step_2"}, second.entered)

	// nil clears the slot.
	engine.OnEnterState(nil)
	_, err = engine.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, second.entered, 2)
}

func TestEngine_EnterHook_BeforeAction(t *testing.T) {
	var order []string
	reg := newRegistry(t, "start",
		domain.State{Name: "start", Action: func(context.Context, domain.Driver, domain.Page) error {
			order = append(order, "action")
			return nil
		}},
	)
	engine := runtime.NewEngine(reg)
	engine.OnEnterState(func(_ context.Context, name string) error {
		order = append(order, "hook:"+name)
		return nil
	})

	_, err := engine.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hook:start", "action"}, order)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	reg := newRegistry(t, "start",
		domain.State{Name: "start", Transitions: []string{"step_2"}},
		domain.State{Name: "step_2", Transitions: []string{"stuck"}, WaitBudget: 20 * time.Millisecond},
		domain.State{Name: "stuck", Ready: never()},
	)

	var (
		entered     []string
		transitions []string
		timeouts    []*domain.StateEvent
	)
	hooks := domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			assert.Equal(t, domain.EventStateEnter, e.Type)
			entered = append(entered, e.State)
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			transitions = append(transitions, e.From+"->"+e.To)
			assert.Equal(t, 1, e.Attempts)
		},
		OnTimeout: func(_ context.Context, e *domain.StateEvent) {
			timeouts = append(timeouts, e)
		},
	}

	engine := runtime.NewEngine(reg, runtime.WithLifecycleHooks(hooks), runtime.WithPollInterval(5*time.Millisecond))
	_, err := engine.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrTransitionTimeout)

	assert.Equal(t, []string{"start", "step_2"}, entered)
	assert.Equal(t, []string{"start->step_2"}, transitions)
	require.Len(t, timeouts, 1)
	assert.Equal(t, "step_2", timeouts[0].State)
	assert.Equal(t, []string{"stuck"}, timeouts[0].Candidates)
}

func TestEngine_OnTerminate(t *testing.T) {
	reg := newRegistry(t, "only", domain.State{Name: "only"})

	var terminated string
	engine := runtime.NewEngine(reg, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnTerminate: func(_ context.Context, e *domain.StateEvent) {
			terminated = e.State
		},
	}))

	_, err := engine.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "only", terminated)
}
