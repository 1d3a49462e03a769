package runtime

import (
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

// ExecutionContext is the ephemeral bookkeeping of a single run.
// It is confined to the goroutine running Execute and is never persisted.
type ExecutionContext struct {
	Driver      domain.Driver
	Phase       domain.Phase
	Initial     string
	Current     string
	Previous    string
	History     []string
	Transitions int
	StartedAt   time.Time

	// SearchStartedAt marks the start of the current transition search;
	// each state's wait budget is measured from here.
	SearchStartedAt time.Time
}

// NewExecutionContext prepares a run starting at initial.
func NewExecutionContext(initial string, d domain.Driver) *ExecutionContext {
	return &ExecutionContext{
		Driver:    d,
		Phase:     domain.PhaseNotStarted,
		Initial:   initial,
		Current:   initial,
		History:   []string{initial},
		StartedAt: time.Now(),
	}
}

// MoveTo records a transition to next.
func (c *ExecutionContext) MoveTo(next string) {
	c.Previous = c.Current
	c.Current = next
	c.History = append(c.History, next)
	c.Transitions++
}

// Terminate marks the run as finished.
func (c *ExecutionContext) Terminate() {
	c.Phase = domain.PhaseTerminated
}

// Elapsed is the accumulated run time.
func (c *ExecutionContext) Elapsed() time.Duration {
	return time.Since(c.StartedAt)
}

// Report snapshots the run.
func (c *ExecutionContext) Report() *domain.RunReport {
	return &domain.RunReport{
		Initial:     c.Initial,
		Final:       c.Current,
		Path:        append([]string(nil), c.History...),
		Transitions: c.Transitions,
		Elapsed:     c.Elapsed(),
		Terminated:  c.Phase == domain.PhaseTerminated,
	}
}
