package dsl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	noop := func(context.Context, domain.Driver, domain.Page) error { return nil }

	reg, err := dsl.New().
		Add("init").Do(noop).Go("login").
		Add("login").When(domain.Always()).Go("landing", "error").Wait(30 * time.Second).
		Add("landing").Terminal().
		Add("error").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "init", reg.InitialState())
	assert.Equal(t, []string{"init", "login", "landing", "error"}, reg.Names())

	login, ok := reg.State("login")
	require.True(t, ok)
	assert.Equal(t, []string{"landing", "error"}, login.Transitions)
	assert.Equal(t, 30*time.Second, login.WaitBudget)
	assert.NotNil(t, login.Ready)

	first, _ := reg.State("init")
	assert.NotNil(t, first.Action)

	landing, _ := reg.State("landing")
	assert.True(t, landing.Terminal())
}

func TestBuilder_ExplicitStart(t *testing.T) {
	b := dsl.New()
	b.Add("a").Go("b")
	b.Add("b")
	b.Start("b")

	reg, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "b", reg.InitialState())
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := dsl.New()
	b.Add("a").Go("b")
	b.Add("a").Go("c")
	b.Add("b")
	b.Add("c")

	reg, err := b.Build()
	require.NoError(t, err)
	a, _ := reg.State("a")
	assert.Equal(t, []string{"b", "c"}, a.Transitions)
	assert.Equal(t, 3, reg.Len())
}

func TestBuilder_DanglingTransition(t *testing.T) {
	_, err := dsl.New().Add("a").Go("missing").Build()

	var missing *domain.MissingStateError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "missing", missing.Target)
}

func TestBuilder_Empty(t *testing.T) {
	reg, err := dsl.New().Build()
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, "", reg.InitialState())
}
