package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/registry"
	"golang.org/x/sync/errgroup"
)

// Session describes one run: a registry to walk and the driver to walk it with.
type Session struct {
	ID       string
	Registry *registry.Registry
	Driver   domain.Driver
}

// Result is the outcome of one session.
type Result struct {
	ID     string
	Report *domain.RunReport
	Err    error
}

// Pool orchestrates concurrent session runs.
type Pool struct {
	locker      ports.DistributedLocker
	store       ports.ReportStore
	limit       int
	lockTTL     time.Duration
	saveTimeout time.Duration
	logger      *slog.Logger
	engineOpts  []waypoint.Option
}

// Option configures the Pool.
type Option func(*Pool)

// WithLocker enables distributed locking per session ID.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(p *Pool) {
		p.locker = locker
	}
}

// WithLockTTL sets how long a session lock is held at most.
func WithLockTTL(ttl time.Duration) Option {
	return func(p *Pool) {
		if ttl > 0 {
			p.lockTTL = ttl
		}
	}
}

// WithReportStore saves the report of every finished session.
func WithReportStore(store ports.ReportStore) Option {
	return func(p *Pool) {
		p.store = store
	}
}

// WithConcurrency caps the number of sessions running at once (0 = unlimited).
func WithConcurrency(n int) Option {
	return func(p *Pool) {
		p.limit = n
	}
}

// WithLogger configures a logger for the Pool.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithEngineOptions are applied to the engine of every session.
func WithEngineOptions(opts ...waypoint.Option) Option {
	return func(p *Pool) {
		p.engineOpts = append(p.engineOpts, opts...)
	}
}

// NewPool creates a new session pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		lockTTL:     10 * time.Minute,
		saveTimeout: 5 * time.Second,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every session concurrently and waits for all of them.
// A failing session does not stop the others; results keep the input order.
func (p *Pool) Run(ctx context.Context, sessions ...Session) []Result {
	results := make([]Result, len(sessions))

	var g errgroup.Group
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}

	for i, s := range sessions {
		i, s := i, s
		g.Go(func() error {
			report, err := p.runOne(ctx, s)
			results[i] = Result{ID: s.ID, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pool) runOne(ctx context.Context, s Session) (*domain.RunReport, error) {
	logger := p.logger.With("session", s.ID)

	if p.locker != nil {
		unlock, err := p.locker.Lock(ctx, s.ID, p.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock session %s: %w", s.ID, err)
		}
		defer func() {
			// Use a fresh context: ctx may already be cancelled.
			if err := unlock(context.Background()); err != nil {
				logger.Error("failed to release session lock", "err", err)
			}
		}()
	}

	opts := append([]waypoint.Option{waypoint.WithName(s.ID), waypoint.WithLogger(p.logger)}, p.engineOpts...)
	eng, err := waypoint.New(s.Registry, s.Driver, opts...)
	if err != nil {
		return nil, err
	}

	report, runErr := eng.Execute(ctx)
	if runErr != nil {
		logger.Warn("session failed", "err", runErr)
	} else {
		logger.Info("session finished", "final", report.Final, "elapsed", report.Elapsed)
	}

	if p.store != nil && report != nil {
		// A cancelled run still leaves its partial report behind.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.saveTimeout)
		defer cancel()
		if err := p.store.Save(saveCtx, s.ID, report); err != nil {
			logger.Error("failed to save run report", "err", err)
		}
	}
	return report, runErr
}

// Errors returns the non-nil errors of results, keyed by session ID.
func Errors(results []Result) map[string]error {
	errs := make(map[string]error)
	for _, r := range results {
		if r.Err != nil {
			errs[r.ID] = r.Err
		}
	}
	return errs
}
