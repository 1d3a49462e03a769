package runtime

import (
	"context"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

// awaitTransition polls the candidates of state, in declared order, until one
// is ready or the state's wait budget runs out. The first ready candidate wins.
//
// Only the search is retried: a Condition error ends the run immediately.
func (e *Engine) awaitTransition(ctx context.Context, ec *ExecutionContext, state domain.State) (string, error) {
	ec.Phase = domain.PhaseAwaitingTransition

	budget := state.Budget(e.defaultWait)
	start := time.Now()
	deadline := start.Add(budget)
	ec.SearchStartedAt = start

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempts := 1; ; attempts++ {
		if err := ctx.Err(); err != nil {
			return "", &domain.CancelledError{State: state.Name, Cause: err}
		}

		next, err := e.firstReady(ctx, ec, state)
		if err != nil {
			return "", err
		}
		if next != "" {
			waited := time.Since(start)
			e.logger.DebugContext(ctx, "transition",
				"from", state.Name, "to", next, "attempts", attempts, "waited", waited)
			e.emitTransition(ctx, state.Name, next, attempts, waited)
			return next, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			elapsed := time.Since(start)
			e.logger.WarnContext(ctx, "transition timeout",
				"state", state.Name, "candidates", state.Transitions,
				"elapsed", elapsed, "attempts", attempts)
			e.emitTimeout(ctx, state, elapsed)
			return "", &domain.TransitionTimeoutError{
				State:      state.Name,
				Candidates: append([]string(nil), state.Transitions...),
				Elapsed:    elapsed,
				Budget:     budget,
			}
		}

		// The last wait is clipped so the final pass happens at the deadline.
		wait := min(e.pollInterval, remaining)
		if timer == nil {
			timer = time.NewTimer(wait)
		} else {
			timer.Reset(wait)
		}

		select {
		case <-ctx.Done():
			return "", &domain.CancelledError{State: state.Name, Cause: ctx.Err()}
		case <-timer.C:
		}
	}
}

// firstReady returns the first candidate whose ready condition holds, or "".
func (e *Engine) firstReady(ctx context.Context, ec *ExecutionContext, state domain.State) (string, error) {
	for _, name := range state.Transitions {
		target, ok := e.registry.State(name)
		if !ok {
			return "", &domain.MissingStateError{Source: state.Name, Target: name}
		}

		ready, err := domain.Evaluate(ctx, target.Ready, ec.Driver)
		if err != nil {
			return "", err
		}
		if ready {
			return name, nil
		}
	}
	return "", nil
}
