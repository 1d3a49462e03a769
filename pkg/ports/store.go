package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/domain"
)

// ReportStore defines the interface for keeping the outcome of session runs.
type ReportStore interface {
	// Save persists the report for a given session ID, replacing any previous one.
	Save(ctx context.Context, sessionID string, report *domain.RunReport) error

	// Load retrieves the report for a given session ID.
	// Returns domain.ErrReportNotFound if the session has no report.
	Load(ctx context.Context, sessionID string) (*domain.RunReport, error)

	// Delete removes the report for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the session IDs that have a report.
	List(ctx context.Context) ([]string, error)
}
