package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.RunReport
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.RunReport),
	}
}

// Save persists a copy of the report in memory.
func (s *Store) Save(ctx context.Context, sessionID string, report *domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = clone(*report)
	return nil
}

// Load retrieves a copy of the report so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	ret := clone(report)
	return &ret, nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the sessions with a report, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}

func clone(r domain.RunReport) domain.RunReport {
	if r.Path != nil {
		r.Path = append([]string(nil), r.Path...)
	}
	return r
}
