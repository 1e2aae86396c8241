package dispatch

import (
	"context"
	"sync"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
	"github.com/sereenat7/DISHA-sub001/internal/provider"
)

// DispatchSms issues one concurrent SMS per contact with the same isolation
// and wait-all semantics as a call round. It runs exactly once per session,
// strictly after the last call round.
func (e *Engine) DispatchSms(ctx context.Context, plan *Plan) map[string]domain.SmsResult {
	e.sink.Emit(ctx, plan.SessionID, domain.EventTypeSmsStarted, domain.SmsStartedPayload{
		ContactCount: len(plan.Contacts),
	})

	results := make(chan domain.SmsResult, len(plan.Contacts))
	var wg sync.WaitGroup
	for _, contact := range plan.Contacts {
		wg.Add(1)
		go func(contact domain.Contact) {
			defer wg.Done()
			results <- e.sendSms(ctx, plan, contact)
		}(contact)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make(map[string]domain.SmsResult, len(plan.Contacts))
	succeeded, failed := 0, 0
	for result := range results {
		outcomes[result.ContactPhone] = result
		if result.Outcome == domain.OutcomeSuccess {
			succeeded++
		} else {
			failed++
		}
		e.sink.Emit(ctx, plan.SessionID, domain.EventTypeSmsResolved, domain.SmsResolvedPayload{
			Phone:             result.ContactPhone,
			Outcome:           result.Outcome,
			ProviderMessageID: result.ProviderMessageID,
			ProviderStatus:    result.ProviderStatus,
			Error:             result.Error,
		})
	}

	e.sink.Emit(ctx, plan.SessionID, domain.EventTypeSmsComplete, domain.SmsCompletePayload{
		Succeeded: succeeded,
		Failed:    failed,
	})
	return outcomes
}

// sendSms performs one SMS attempt using the contact's body or the default
// alert text.
func (e *Engine) sendSms(ctx context.Context, plan *Plan, contact domain.Contact) domain.SmsResult {
	result := domain.SmsResult{
		ContactPhone: contact.Phone,
	}

	if ctx.Err() != nil {
		result.Outcome = domain.OutcomeCancelled
		result.Error = "dispatch cancelled before message attempt"
		return result
	}

	body := contact.SmsBody
	if body == "" {
		body = e.cfg.DefaultSmsBody
	}

	msgCtx := ctx
	if e.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		msgCtx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
		defer cancel()
	}

	resource, err := e.notifier.CreateMessage(msgCtx, &provider.MessageRequest{
		To:   contact.Phone,
		From: plan.OriginNumber,
		Body: body,
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
	result.ProviderMessageID = resource.ID
	result.ProviderStatus = resource.Status
	return result
}
