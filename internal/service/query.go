package service

import (
	"context"
	"fmt"

	"github.com/sereenat7/DISHA-sub001/internal/dispatch"
	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// GetSession returns a session by ID, nil when it does not exist.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.AlertSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetReports returns the per-contact reports recorded for a session.
func (s *Service) GetReports(ctx context.Context, sessionID string) ([]domain.ContactReport, error) {
	reports, err := s.store.GetContactReports(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact reports: %w", err)
	}
	return reports, nil
}

// ListSessions returns recent sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]domain.AlertSession, error) {
	sessions, err := s.store.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetEvents returns a session's event trail, oldest first.
func (s *Service) GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	events, err := s.store.GetEvents(ctx, sessionID, afterTs, types, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

// Summary renders the human-readable report for a finished session.
func (s *Service) Summary(ctx context.Context, sessionID string) (string, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return "", ErrSessionNotFound
	}

	reports, err := s.store.GetContactReports(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to get contact reports: %w", err)
	}
	session.Reports = reports

	return dispatch.Summarize(session), nil
}
