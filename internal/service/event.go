package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/feed"
)

// Emit implements dispatch.EventSink. Every engine event is persisted as an
// audit record and fanned out to feed subscribers. Persistence uses a fresh
// context so terminal events survive session cancellation.
func (s *Service) Emit(_ context.Context, sessionID string, eventType domain.EventType, payload interface{}) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: failed to marshal %s payload: %v", eventType, err)
		return
	}

	event := &domain.Event{
		EventID:   "evt_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Ts:        time.Now().UnixMilli(),
		Type:      eventType,
		Payload:   payloadBytes,
	}

	ctx := context.Background()
	if err := s.store.CreateEvent(ctx, event); err != nil {
		log.Printf("ERROR: failed to record %s event: %v", eventType, err)
	}

	if status, ok := s.statusForEvent(sessionID, eventType, payload); ok {
		if err := s.store.UpdateSessionStatus(ctx, sessionID, status); err != nil {
			log.Printf("ERROR: failed to update session %s status: %v", sessionID, err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Publish(&feed.FeedEvent{
			SessionID: sessionID,
			Ts:        event.Ts,
			Type:      string(eventType),
			Payload:   payloadBytes,
		}); err != nil {
			log.Printf("WARN: failed to publish %s to feed: %v", eventType, err)
		}
	}
}

// statusForEvent maps lifecycle events onto session status transitions. The
// first round moves the session to CALLS_IN_PROGRESS, the final round's
// completion to CALLS_COMPLETE, and the SMS pass to SMS_IN_PROGRESS; terminal
// statuses are written by runDispatch.
func (s *Service) statusForEvent(sessionID string, eventType domain.EventType, payload interface{}) (domain.SessionStatus, bool) {
	switch eventType {
	case domain.EventTypeRoundStarted:
		if p, ok := payload.(domain.RoundStartedPayload); ok && p.Round == 1 {
			return domain.SessionStatusCallsInProgress, true
		}
	case domain.EventTypeRoundComplete:
		if p, ok := payload.(domain.RoundCompletePayload); ok && p.Round == s.numRounds(sessionID) {
			return domain.SessionStatusCallsComplete, true
		}
	case domain.EventTypeSmsStarted:
		return domain.SessionStatusSmsInProgress, true
	}
	return "", false
}

// numRounds looks up the planned round count for an in-flight session.
func (s *Service) numRounds(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if running, ok := s.active[sessionID]; ok {
		return running.plan.NumRounds
	}
	return 0
}
