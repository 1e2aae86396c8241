// Package store persists completed dispatch sessions, their per-contact
// reports, and their event trail.
package store

import (
	"context"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// Store defines the interface for dispatch audit persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.AlertSession) error
	GetSession(ctx context.Context, sessionID string) (*domain.AlertSession, error)
	ListSessions(ctx context.Context, limit int) ([]domain.AlertSession, error)
	UpdateSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error
	FinishSession(ctx context.Context, session *domain.AlertSession) error

	// Contact report operations
	CreateContactReports(ctx context.Context, sessionID string, reports []domain.ContactReport) error
	GetContactReports(ctx context.Context, sessionID string) ([]domain.ContactReport, error)

	// Event operations
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error)

	// Lifecycle
	Close() error
}
