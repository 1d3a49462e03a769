package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Combine returns hooks that call every given hook set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	switch len(sets) {
	case 0:
		return domain.LifecycleHooks{}
	case 1:
		return sets[0]
	}

	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			for _, s := range sets {
				if s.OnStateEnter != nil {
					s.OnStateEnter(ctx, e)
				}
			}
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, s := range sets {
				if s.OnTransition != nil {
					s.OnTransition(ctx, e)
				}
			}
		},
		OnTimeout: func(ctx context.Context, e *domain.StateEvent) {
			for _, s := range sets {
				if s.OnTimeout != nil {
					s.OnTimeout(ctx, e)
				}
			}
		},
		OnTerminate: func(ctx context.Context, e *domain.StateEvent) {
			for _, s := range sets {
				if s.OnTerminate != nil {
					s.OnTerminate(ctx, e)
				}
			}
		},
	}
}

// LogHooks logs every lifecycle event at Info level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.InfoContext(ctx, "state_enter", "state", e.State)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.InfoContext(ctx, "transition",
				"from", e.From,
				"to", e.To,
				"attempts", e.Attempts,
				"waited", e.Waited,
			)
		},
		OnTimeout: func(ctx context.Context, e *domain.StateEvent) {
			logger.WarnContext(ctx, "transition_timeout",
				"state", e.State,
				"candidates", e.Candidates,
				"elapsed", e.Elapsed,
			)
		},
		OnTerminate: func(ctx context.Context, e *domain.StateEvent) {
			logger.InfoContext(ctx, "terminated", "state", e.State, "elapsed", e.Elapsed)
		},
	}
}
