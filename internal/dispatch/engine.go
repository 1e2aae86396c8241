// Package dispatch implements the parallel, multi-round alert dispatch
// pipeline: N sequential call rounds fanning out one concurrent attempt per
// contact, a single SMS pass after the last round, and per-contact
// aggregation of every outcome.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/provider"
)

// Session configuration defaults.
const (
	DefaultNumRounds   = 5
	DefaultWaitBetween = 40 * time.Second
	DefaultSmsBody     = "This is an alert message."
)

// statusCallbackEvents are the call lifecycle events requested from the
// provider for every originated call.
var statusCallbackEvents = []string{"completed", "failed"}

// ErrInvalidPlan indicates malformed session configuration. It is the only
// error class the engine surfaces; provider failures become FAILURE results.
var ErrInvalidPlan = errors.New("invalid dispatch plan")

// Plan is the configuration for one dispatch session.
type Plan struct {
	SessionID    string
	OriginNumber string
	NumRounds    int
	WaitBetween  time.Duration
	Contacts     []domain.Contact
}

// Config holds engine settings shared across sessions.
type Config struct {
	CallTimeout    time.Duration // per provider operation; 0 disables
	StatusCallback string        // URL the provider posts call status to
	DefaultSmsBody string        // used when a contact has no sms_body
}

// EventSink receives engine lifecycle events as they occur. Implementations
// must be safe for concurrent use; call and SMS resolutions are emitted from
// the phase collector as units resolve.
type EventSink interface {
	Emit(ctx context.Context, sessionID string, eventType domain.EventType, payload interface{})
}

// NopSink discards all events.
type NopSink struct{}

// Emit implements EventSink.
func (NopSink) Emit(context.Context, string, domain.EventType, interface{}) {}

// Engine drives dispatch sessions against an injected provider client.
type Engine struct {
	notifier provider.Notifier
	sink     EventSink
	cfg      Config
}

// NewEngine creates a dispatch engine. A nil sink disables event emission.
func NewEngine(notifier provider.Notifier, sink EventSink, cfg Config) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	if cfg.DefaultSmsBody == "" {
		cfg.DefaultSmsBody = DefaultSmsBody
	}
	return &Engine{
		notifier: notifier,
		sink:     sink,
		cfg:      cfg,
	}
}

// ValidatePlan checks session configuration before any provider work begins.
func ValidatePlan(plan *Plan) error {
	if len(plan.Contacts) == 0 {
		return fmt.Errorf("%w: contact list is empty", ErrInvalidPlan)
	}
	seen := make(map[string]bool, len(plan.Contacts))
	for i, contact := range plan.Contacts {
		if contact.Phone == "" {
			return fmt.Errorf("%w: contact %d has no phone number", ErrInvalidPlan, i)
		}
		if seen[contact.Phone] {
			return fmt.Errorf("%w: duplicate phone number %s", ErrInvalidPlan, contact.Phone)
		}
		seen[contact.Phone] = true
	}
	if plan.NumRounds < 1 {
		return fmt.Errorf("%w: num_rounds must be at least 1, got %d", ErrInvalidPlan, plan.NumRounds)
	}
	if plan.WaitBetween < 0 {
		return fmt.Errorf("%w: wait_between_rounds must not be negative", ErrInvalidPlan)
	}
	if plan.OriginNumber == "" {
		return fmt.Errorf("%w: origin number is required", ErrInvalidPlan)
	}
	return nil
}

// Run executes the full pipeline for one session: all call rounds, then the
// SMS pass, then aggregation. It returns an error only for an invalid plan;
// any mix of per-contact failures still yields a complete session. When ctx
// is cancelled mid-run, remaining attempts resolve as CANCELLED and the
// session is returned with status CANCELLED.
func (e *Engine) Run(ctx context.Context, plan *Plan) (*domain.AlertSession, error) {
	if err := ValidatePlan(plan); err != nil {
		return nil, err
	}

	started := time.Now()
	e.sink.Emit(ctx, plan.SessionID, domain.EventTypeSessionStarted, domain.SessionStartedPayload{
		ContactCount:  len(plan.Contacts),
		NumRounds:     plan.NumRounds,
		WaitBetweenMs: plan.WaitBetween.Milliseconds(),
	})

	calls := e.RunRounds(ctx, plan)
	sms := e.DispatchSms(ctx, plan)
	reports := Combine(plan, calls, sms)

	ended := time.Now()
	session := &domain.AlertSession{
		SessionID:     plan.SessionID,
		Status:        domain.SessionStatusComplete,
		OriginNumber:  plan.OriginNumber,
		NumRounds:     plan.NumRounds,
		WaitBetweenMs: plan.WaitBetween.Milliseconds(),
		ContactCount:  len(plan.Contacts),
		Reports:       reports,
		StartedAt:     started,
		EndedAt:       &ended,
		ElapsedMs:     ended.Sub(started).Milliseconds(),
	}

	stats := SessionStats(reports)
	if ctx.Err() != nil {
		session.Status = domain.SessionStatusCancelled
		e.sink.Emit(ctx, plan.SessionID, domain.EventTypeSessionCancelled, domain.SessionCancelledPayload{
			Reason: ctx.Err().Error(),
		})
		return session, nil
	}

	e.sink.Emit(ctx, plan.SessionID, domain.EventTypeSessionComplete, domain.SessionCompletePayload{
		ElapsedMs:       session.ElapsedMs,
		TotalCalls:      stats.TotalCalls,
		SuccessfulCalls: stats.SuccessfulCalls,
		SmsSent:         stats.SmsSent,
	})
	return session, nil
}
