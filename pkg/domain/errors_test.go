package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrors_Matching(t *testing.T) {
	timeout := &domain.TransitionTimeoutError{
		State:      "login",
		Candidates: []string{"landing", "error"},
		Elapsed:    105 * time.Millisecond,
		Budget:     100 * time.Millisecond,
	}
	assert.ErrorIs(t, timeout, domain.ErrTransitionTimeout)
	assert.Contains(t, timeout.Error(), `"login"`)
	assert.Contains(t, timeout.Error(), "landing, error")

	assert.ErrorIs(t, &domain.NoInitialStateError{}, domain.ErrNoInitialState)

	cancelled := &domain.CancelledError{State: "login", Cause: context.Canceled}
	assert.ErrorIs(t, cancelled, domain.ErrCancelled)
	assert.ErrorIs(t, cancelled, context.Canceled)

	limit := &domain.TransitionLimitError{State: "a", Limit: 3}
	assert.ErrorIs(t, limit, domain.ErrTransitionLimit)
}

func TestMissingStateError_Message(t *testing.T) {
	assert.Equal(t, `state "init" transitions to undefined state "login"`,
		(&domain.MissingStateError{Source: "init", Target: "login"}).Error())
	assert.Equal(t, `initial state "init" is not defined`,
		(&domain.MissingStateError{Target: "init"}).Error())
}

func TestAggregateError_Unwrap(t *testing.T) {
	missing := &domain.MissingStateError{Source: "a", Target: "b"}
	agg := &domain.AggregateError{Errors: []error{missing, &domain.MissingStateError{Source: "a", Target: "c"}}}

	var target *domain.MissingStateError
	assert.True(t, errors.As(agg, &target))
	assert.Equal(t, "b", target.Target)
	assert.Contains(t, agg.Error(), "2 validation errors")
}

func TestState_Budget(t *testing.T) {
	assert.Equal(t, 5*time.Second, domain.State{WaitBudget: 5 * time.Second}.Budget(time.Second))
	assert.Equal(t, time.Second, domain.State{}.Budget(time.Second))
	assert.Equal(t, domain.DefaultWaitBudget, domain.State{}.Budget(0))
	assert.True(t, domain.State{}.Terminal())
	assert.False(t, domain.State{Transitions: []string{"x"}}.Terminal())
}
