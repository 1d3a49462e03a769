package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/muesli/termenv"
)

// Trail prints the states a session walks through as they happen.
type Trail struct {
	out *termenv.Output
}

// NewTrail creates a Trail writing to w. Colors follow w's capabilities.
func NewTrail(w io.Writer) *Trail {
	return &Trail{out: termenv.NewOutput(w)}
}

// Hooks returns lifecycle hooks that feed the trail.
func (t *Trail) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			t.line("→", "#818cf8", e.State, "")
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			t.line(" ", "#6b7280", e.To, fmt.Sprintf("ready after %s (%d checks)", e.Waited, e.Attempts))
		},
		OnTimeout: func(_ context.Context, e *domain.StateEvent) {
			t.line("✗", "#fb7185", e.State, fmt.Sprintf("no successor of %v ready after %s", e.Candidates, e.Elapsed))
		},
		OnTerminate: func(_ context.Context, e *domain.StateEvent) {
			t.line("✓", "#34d399", e.State, fmt.Sprintf("done in %s", e.Elapsed))
		},
	}
}

func (t *Trail) line(mark, color, state, detail string) {
	s := t.out.String(mark + " " + state).Foreground(t.out.Color(color))
	if detail == "" {
		fmt.Fprintln(t.out, s)
		return
	}
	fmt.Fprintf(t.out, "%s %s\n", s, t.out.String(detail).Faint())
}
