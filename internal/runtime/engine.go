package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/registry"
)

// Engine is the core state machine runner.
// It owns no session resources: everything observable happens inside the
// Conditions and Actions supplied with the states.
type Engine struct {
	registry       *registry.Registry
	enterHook      domain.EnterHook
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	defaultWait    time.Duration
	pollInterval   time.Duration
	maxTransitions int
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observer callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithEnterHook sets the enter-state hook (see OnEnterState).
func WithEnterHook(h domain.EnterHook) EngineOption {
	return func(e *Engine) {
		e.enterHook = h
	}
}

// WithDefaultWaitBudget sets the budget used by states that declare none.
func WithDefaultWaitBudget(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.defaultWait = d
		}
	}
}

// WithPollInterval sets the pause between two readiness passes.
func WithPollInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithMaxTransitions bounds the number of transitions in one run (0 = unlimited).
func WithMaxTransitions(n int) EngineOption {
	return func(e *Engine) {
		if n >= 0 {
			e.maxTransitions = n
		}
	}
}

// NewEngine creates a new engine over the given registry.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:     reg,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultWait:  domain.DefaultWaitBudget,
		pollInterval: domain.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnEnterState installs h as the enter-state hook, replacing any previous one.
// Passing nil removes it. It must not be called while Execute is running.
func (e *Engine) OnEnterState(h domain.EnterHook) {
	e.enterHook = h
}

// Validate checks the registry without running anything.
func (e *Engine) Validate() error {
	return e.registry.Validate()
}

// Execute drives the session from the initial state until a terminal state is
// reached or an error occurs.
//
// Errors from Actions, Conditions and the enter hook are returned unchanged.
// Precondition failures (*domain.NoInitialStateError, *domain.MissingStateError)
// return a nil report; every other outcome returns the report of the run so far.
func (e *Engine) Execute(ctx context.Context, d domain.Driver) (*domain.RunReport, error) {
	initial := e.registry.InitialState()
	if initial == "" {
		return nil, &domain.NoInitialStateError{}
	}
	if err := e.registry.Validate(); err != nil {
		return nil, err
	}

	ec := NewExecutionContext(initial, d)
	e.logger.DebugContext(ctx, "run started", "state", initial)

	for {
		state, ok := e.registry.State(ec.Current)
		if !ok {
			// Only reachable if the registry was mutated mid-run.
			return ec.Report(), &domain.MissingStateError{Source: ec.Previous, Target: ec.Current}
		}

		if err := e.enter(ctx, ec, state); err != nil {
			return ec.Report(), err
		}

		if state.Terminal() {
			ec.Terminate()
			e.logger.DebugContext(ctx, "run terminated", "state", state.Name, "elapsed", ec.Elapsed())
			e.emitTerminate(ctx, ec)
			return ec.Report(), nil
		}

		if e.maxTransitions > 0 && ec.Transitions >= e.maxTransitions {
			return ec.Report(), &domain.TransitionLimitError{State: state.Name, Limit: e.maxTransitions}
		}

		next, err := e.awaitTransition(ctx, ec, state)
		if err != nil {
			return ec.Report(), err
		}
		ec.MoveTo(next)
	}
}

// enter runs the hook and the Action of a freshly entered state.
func (e *Engine) enter(ctx context.Context, ec *ExecutionContext, state domain.State) error {
	ec.Phase = domain.PhaseEntering
	e.logger.DebugContext(ctx, "entering state", "state", state.Name)
	e.emitStateEnter(ctx, state.Name)

	if e.enterHook != nil {
		if err := e.enterHook(ctx, state.Name); err != nil {
			return err
		}
	}

	if state.Action != nil {
		if err := state.Action(ctx, ec.Driver, state.Ready); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) emitStateEnter(ctx context.Context, name string) {
	if e.hooks.OnStateEnter == nil {
		return
	}
	e.hooks.OnStateEnter(ctx, &domain.StateEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStateEnter},
		State:     name,
	})
}

func (e *Engine) emitTransition(ctx context.Context, from, to string, attempts int, waited time.Duration) {
	if e.hooks.OnTransition == nil {
		return
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition},
		From:      from,
		To:        to,
		Attempts:  attempts,
		Waited:    waited,
	})
}

func (e *Engine) emitTimeout(ctx context.Context, state domain.State, elapsed time.Duration) {
	if e.hooks.OnTimeout == nil {
		return
	}
	e.hooks.OnTimeout(ctx, &domain.StateEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventTimeout},
		State:      state.Name,
		Candidates: append([]string(nil), state.Transitions...),
		Elapsed:    elapsed,
	})
}

func (e *Engine) emitTerminate(ctx context.Context, ec *ExecutionContext) {
	if e.hooks.OnTerminate == nil {
		return
	}
	e.hooks.OnTerminate(ctx, &domain.StateEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTerminate},
		State:     ec.Current,
		Elapsed:   ec.Elapsed(),
	})
}
