package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves diagnostics over HTTP.
type Server struct {
	Store    ports.ReportStore
	Registry *registry.Registry
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates the diagnostics router.
// Store, Registry and Gatherer are optional; their routes answer 404 when unset.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Get("/metrics", s.Metrics)
	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)
	r.Get("/runs/{id}/graph", s.GetRunGraph)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	if s.Gatherer == nil {
		http.NotFound(w, r)
		return
	}
	promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.NotFound(w, r)
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		s.Logger.Error("ListRuns failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	report, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetRunGraph handles GET /runs/{id}/graph, rendering the flow with the run's path.
func (s *Server) GetRunGraph(w http.ResponseWriter, r *http.Request) {
	if s.Registry == nil {
		http.NotFound(w, r)
		return
	}
	report, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.FromRegistry(s.Registry, graph.OverlayFromReport(report))))
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.RunReport, bool) {
	if s.Store == nil {
		http.NotFound(w, r)
		return nil, false
	}
	id := chi.URLParam(r, "id")
	report, err := s.Store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrReportNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		s.Logger.Error("load run failed", "id", id, "err", err)
		return nil, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
