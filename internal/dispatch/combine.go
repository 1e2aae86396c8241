package dispatch

import (
	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// Combine merges the per-round call attempts and the SMS outcomes into one
// report per contact, in registry order. It is a pure function. A contact
// missing an expected record gets an explicit FAILURE entry with a
// descriptive error rather than being omitted; existing records are never
// overwritten.
func Combine(plan *Plan, calls map[string][]domain.CallResult, sms map[string]domain.SmsResult) []domain.ContactReport {
	reports := make([]domain.ContactReport, 0, len(plan.Contacts))

	for _, contact := range plan.Contacts {
		report := domain.ContactReport{
			Contact: contact,
			Calls:   make([]domain.CallResult, 0, plan.NumRounds),
		}

		attempts := calls[contact.Phone]
		for round := 1; round <= plan.NumRounds; round++ {
			if round <= len(attempts) {
				report.Calls = append(report.Calls, attempts[round-1])
				continue
			}
			report.Calls = append(report.Calls, domain.CallResult{
				ContactPhone: contact.Phone,
				Round:        round,
				Outcome:      domain.OutcomeFailure,
				Error:        "no call attempt recorded for this round",
			})
		}

		outcome, ok := sms[contact.Phone]
		if !ok {
			outcome = domain.SmsResult{
				ContactPhone: contact.Phone,
				Outcome:      domain.OutcomeFailure,
				Error:        "no SMS outcome recorded for contact",
			}
		}
		report.Sms = outcome

		reports = append(reports, report)
	}

	return reports
}
