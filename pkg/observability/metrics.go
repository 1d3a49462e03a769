package observability

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle events.
type Metrics struct {
	StateEnters  *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Timeouts     *prometheus.CounterVec
	SearchTime   *prometheus.HistogramVec
	Terminations prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StateEnters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_state_enters_total",
				Help: "Total number of state entries",
			},
			[]string{"state"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_transitions_total",
				Help: "Total number of transitions taken",
			},
			[]string{"from", "to"},
		),
		Timeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_transition_timeouts_total",
				Help: "Total number of exhausted wait budgets",
			},
			[]string{"state"},
		),
		SearchTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waypoint_transition_search_seconds",
				Help:    "Time spent waiting for a ready successor",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"state"},
		),
		Terminations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "waypoint_runs_terminated_total",
				Help: "Total number of runs that reached a terminal state",
			},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.StateEnters, m.Transitions, m.Timeouts, m.SearchTime, m.Terminations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.StateEnters.WithLabelValues(e.State).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.From, e.To).Inc()
			m.SearchTime.WithLabelValues(e.From).Observe(e.Waited.Seconds())
		},
		OnTimeout: func(_ context.Context, e *domain.StateEvent) {
			m.Timeouts.WithLabelValues(e.State).Inc()
			m.SearchTime.WithLabelValues(e.State).Observe(e.Elapsed.Seconds())
		},
		OnTerminate: func(context.Context, *domain.StateEvent) {
			m.Terminations.Inc()
		},
	}
}
