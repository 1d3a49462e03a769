package waypoint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/registry"
)

// Engine is the high-level entry point for the waypoint library.
// It binds a state registry to one owned driver handle and wraps the internal runtime.
type Engine struct {
	runtime     *runtime.Engine
	registry    *registry.Registry
	driver      domain.Driver
	hooks       []domain.LifecycleHooks
	enterHook   domain.EnterHook
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithName labels the session; the label is attached to every log line.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// It may be given several times; all registered hooks are called in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithEnterHook sets the enter-state hook. See Engine.OnEnterState.
func WithEnterHook(h domain.EnterHook) Option {
	return func(e *Engine) {
		e.enterHook = h
	}
}

// WithDefaultWaitBudget sets the wait budget of states that declare none.
func WithDefaultWaitBudget(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDefaultWaitBudget(d))
	}
}

// WithPollInterval sets the pause between readiness passes.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithPollInterval(d))
	}
}

// WithMaxTransitions bounds the number of transitions of a run.
func WithMaxTransitions(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithMaxTransitions(n))
	}
}

// New initializes an Engine over reg that drives the session through driver.
// The driver is owned by the caller and is passed to every Action and Condition.
func New(reg *registry.Registry, driver domain.Driver, opts ...Option) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}

	eng := &Engine{
		registry: reg,
		driver:   driver,
	}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("session", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(observability.Combine(eng.hooks...)),
		runtime.WithEnterHook(eng.enterHook),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(reg, runtimeOpts...)
	return eng, nil
}

// OnEnterState installs the hook called with the name of every entered state
// (including the initial one) before its Action runs. There is a single slot:
// a new hook replaces the previous one, and nil removes it. A hook error aborts
// the run and is returned by Execute unchanged.
func (e *Engine) OnEnterState(h domain.EnterHook) {
	e.enterHook = h
	e.runtime.OnEnterState(h)
}

// Validate checks that every transition target (and the initial state) exists.
func (e *Engine) Validate() error {
	return e.runtime.Validate()
}

// Execute runs the session to a terminal state.
func (e *Engine) Execute(ctx context.Context) (*domain.RunReport, error) {
	return e.runtime.Execute(ctx, e.driver)
}

// Registry returns the state registry the engine runs over.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Driver returns the session driver handle.
func (e *Engine) Driver() domain.Driver {
	return e.driver
}
