package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/provider"
)

// RunRounds executes call rounds 1..NumRounds strictly sequentially: round
// r+1 does not start until every attempt of round r has resolved. Every
// contact is re-contacted on every round regardless of earlier outcomes, and
// a round full of failures still advances to the next one. The configured
// pause runs after every round except the last; a zero wait disables it.
func (e *Engine) RunRounds(ctx context.Context, plan *Plan) map[string][]domain.CallResult {
	attempts := make(map[string][]domain.CallResult, len(plan.Contacts))

	for round := 1; round <= plan.NumRounds; round++ {
		results := e.DispatchRound(ctx, plan, round)

		for _, contact := range plan.Contacts {
			attempts[contact.Phone] = append(attempts[contact.Phone], results[contact.Phone])
		}

		if round < plan.NumRounds && plan.WaitBetween > 0 {
			select {
			case <-time.After(plan.WaitBetween):
			case <-ctx.Done():
			}
		}
	}

	return attempts
}

// DispatchRound issues one concurrent call attempt per contact and waits for
// all of them to resolve before returning. A provider failure surfaces as a
// FAILURE result for that contact only; it never aborts sibling attempts.
// Each attempt goroutine sends its own result; only the collector here
// writes the result map.
func (e *Engine) DispatchRound(ctx context.Context, plan *Plan, round int) map[string]domain.CallResult {
	e.sink.Emit(ctx, plan.SessionID, domain.EventTypeRoundStarted, domain.RoundStartedPayload{
		Round:        round,
		ContactCount: len(plan.Contacts),
	})

	results := make(chan domain.CallResult, len(plan.Contacts))
	var wg sync.WaitGroup
	for _, contact := range plan.Contacts {
		wg.Add(1)
		go func(contact domain.Contact) {
			defer wg.Done()
			results <- e.placeCall(ctx, plan, contact, round)
		}(contact)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	attempts := make(map[string]domain.CallResult, len(plan.Contacts))
	succeeded, failed := 0, 0
	for result := range results {
		attempts[result.ContactPhone] = result
		if result.Outcome == domain.OutcomeSuccess {
			succeeded++
		} else {
			failed++
		}
		e.sink.Emit(ctx, plan.SessionID, domain.EventTypeCallResolved, domain.CallResolvedPayload{
			Phone:          result.ContactPhone,
			Round:          round,
			Outcome:        result.Outcome,
			ProviderCallID: result.ProviderCallID,
			ProviderStatus: result.ProviderStatus,
			Error:          result.Error,
		})
	}

	e.sink.Emit(ctx, plan.SessionID, domain.EventTypeRoundComplete, domain.RoundCompletePayload{
		Round:     round,
		Succeeded: succeeded,
		Failed:    failed,
	})
	return attempts
}

// placeCall performs one call attempt. Provider errors are converted into
// the result value; cancellation of the session context yields a CANCELLED
// result while a per-call timeout yields a FAILURE.
func (e *Engine) placeCall(ctx context.Context, plan *Plan, contact domain.Contact, round int) domain.CallResult {
	result := domain.CallResult{
		ContactPhone: contact.Phone,
		Round:        round,
	}

	if ctx.Err() != nil {
		result.Outcome = domain.OutcomeCancelled
		result.Error = "dispatch cancelled before call attempt"
		return result
	}

	callCtx := ctx
	if e.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
		defer cancel()
	}

	resource, err := e.notifier.CreateCall(callCtx, &provider.CallRequest{
		To:             contact.Phone,
		From:           plan.OriginNumber,
		VoiceScriptRef: contact.VoiceScriptRef,
		StatusCallback: e.cfg.StatusCallback,
		CallbackEvents: statusCallbackEvents,
	})
	if err != nil {
		if ctx.Err() != nil {
			result.Outcome = domain.OutcomeCancelled
			result.Error = "dispatch cancelled"
		} else {
			result.Outcome = domain.OutcomeFailure
			result.Error = err.Error()
		}
		return result
	}

	result.Outcome = domain.OutcomeSuccess
	result.ProviderCallID = resource.ID
	result.ProviderStatus = resource.Status
	return result
}
