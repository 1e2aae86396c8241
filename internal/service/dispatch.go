package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/sereenat7/DISHA-sub001/internal/dispatch"
	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/policy"
)

// TriggerDispatch validates a trigger request, persists a new session, and
// starts running it in the background. The returned response carries the
// session ID the caller polls or subscribes with.
func (s *Service) TriggerDispatch(ctx context.Context, req *domain.TriggerRequest) (*domain.TriggerResponse, error) {
	if !s.config.ProviderConfigured() {
		return nil, ErrProviderNotConfigured
	}

	plan := s.buildPlan(req)

	if err := dispatch.ValidatePlan(plan); err != nil {
		return nil, err
	}

	if s.policyEngine != nil {
		phones := make([]string, len(plan.Contacts))
		for i, contact := range plan.Contacts {
			phones[i] = contact.Phone
		}
		action, reason, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
			"origin_number": plan.OriginNumber,
			"num_rounds":    plan.NumRounds,
			"phones":        phones,
		})
		if err != nil {
			return nil, fmt.Errorf("policy evaluation failed: %w", err)
		}
		if action == policy.ActionBlock {
			return nil, fmt.Errorf("%w: %s", ErrPolicyBlocked, reason)
		}
	}

	session := &domain.AlertSession{
		SessionID:     plan.SessionID,
		Status:        domain.SessionStatusCreated,
		OriginNumber:  plan.OriginNumber,
		NumRounds:     plan.NumRounds,
		WaitBetweenMs: plan.WaitBetween.Milliseconds(),
		ContactCount:  len(plan.Contacts),
		StartedAt:     time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.active[plan.SessionID] = &activeDispatch{cancel: cancel, plan: plan}
	s.mu.Unlock()

	log.Printf("Dispatch session %s accepted: %d contacts, %d rounds", plan.SessionID, len(plan.Contacts), plan.NumRounds)

	// Trigger async processing
	go s.runDispatch(runCtx, plan)

	return &domain.TriggerResponse{
		SessionID:    session.SessionID,
		Status:       session.Status,
		ContactCount: session.ContactCount,
		NumRounds:    session.NumRounds,
	}, nil
}

// buildPlan resolves the effective dispatch plan. Request fields override the
// configured roster, which overrides environment defaults.
func (s *Service) buildPlan(req *domain.TriggerRequest) *dispatch.Plan {
	plan := &dispatch.Plan{
		SessionID:    "disp_" + uuid.New().String()[:8],
		OriginNumber: s.config.OriginNumber,
		NumRounds:    s.config.NumRounds,
		WaitBetween:  s.config.WaitBetween,
	}

	if s.defaults != nil {
		plan.Contacts = s.defaults.Contacts
		plan.NumRounds = s.defaults.NumRounds
		plan.WaitBetween = s.defaults.WaitBetween
		if s.defaults.OriginNumber != "" {
			plan.OriginNumber = s.defaults.OriginNumber
		}
	}

	if req != nil {
		if len(req.Contacts) > 0 {
			plan.Contacts = req.Contacts
		}
		if req.NumRounds != 0 {
			plan.NumRounds = req.NumRounds
		}
		if req.WaitBetweenMs != nil {
			plan.WaitBetween = time.Duration(*req.WaitBetweenMs) * time.Millisecond
		}
		if req.OriginNumber != "" {
			plan.OriginNumber = req.OriginNumber
		}
	}

	return plan
}

// runDispatch executes one session to completion and persists the outcome.
func (s *Service) runDispatch(ctx context.Context, plan *dispatch.Plan) {
	defer func() {
		s.mu.Lock()
		delete(s.active, plan.SessionID)
		s.mu.Unlock()
	}()

	engine := dispatch.NewEngine(s.notifier, s, dispatch.Config{
		CallTimeout:    s.config.CallTimeout,
		StatusCallback: s.statusCallback(plan.SessionID),
	})

	session, err := engine.Run(ctx, plan)
	if err != nil {
		// Plans are validated at trigger time, so this is unexpected.
		log.Printf("ERROR: dispatch session %s failed: %v", plan.SessionID, err)
		s.markFailed(plan.SessionID, err)
		return
	}

	// The session context may already be cancelled; persist with a fresh one.
	// Reports are written before the terminal status so a reader that sees
	// the session finished always finds them.
	persistCtx := context.Background()
	if err := s.store.CreateContactReports(persistCtx, session.SessionID, session.Reports); err != nil {
		log.Printf("ERROR: failed to save contact reports for %s: %v", session.SessionID, err)
	}
	if err := s.store.FinishSession(persistCtx, session); err != nil {
		log.Printf("ERROR: failed to finish session %s: %v", session.SessionID, err)
	}

	log.Printf("Dispatch session %s finished: status=%s elapsed=%dms", session.SessionID, session.Status, session.ElapsedMs)
	log.Print("\n" + dispatch.Summarize(session))
}

// markFailed records a terminal FAILED status for a session that never ran.
func (s *Service) markFailed(sessionID string, cause error) {
	ctx := context.Background()
	ended := time.Now()
	session := &domain.AlertSession{
		SessionID: sessionID,
		Status:    domain.SessionStatusFailed,
		EndedAt:   &ended,
		Error:     cause.Error(),
	}
	if err := s.store.FinishSession(ctx, session); err != nil {
		log.Printf("ERROR: failed to mark session %s failed: %v", sessionID, err)
	}
	s.Emit(ctx, sessionID, domain.EventTypeSessionFailed, domain.SessionFailedPayload{
		Error: cause.Error(),
	})
}

// CancelDispatch cancels a running session. Cancelling a session that has
// already finished is a no-op.
func (s *Service) CancelDispatch(ctx context.Context, sessionID string) error {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	running, ok := s.active[sessionID]
	s.mu.Unlock()

	if !ok {
		return nil // Already terminal
	}

	log.Printf("Cancelling dispatch session %s", sessionID)
	running.cancel()
	return nil
}

// statusCallback builds the per-session URL the provider posts call status
// to. Empty when delivery callbacks are not configured.
func (s *Service) statusCallback(sessionID string) string {
	if s.config.StatusCallbackURL == "" {
		return ""
	}
	return s.config.StatusCallbackURL + "?session_id=" + url.QueryEscape(sessionID)
}
