package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// Stats aggregates call and SMS success counts across a session's reports.
type Stats struct {
	TotalCalls      int
	SuccessfulCalls int
	TotalSms        int
	SmsSent         int
}

// SessionStats computes aggregate counts over per-contact reports.
func SessionStats(reports []domain.ContactReport) Stats {
	var stats Stats
	for _, report := range reports {
		stats.TotalCalls += len(report.Calls)
		stats.SuccessfulCalls += report.SuccessfulCalls()
		stats.TotalSms++
		if report.SmsSent() {
			stats.SmsSent++
		}
	}
	return stats
}

// Summarize renders the human-readable report for a session: per contact,
// successful/total calls, the SMS flag, and per-round detail with provider
// ids for successful calls. Read-only; no side effects.
func Summarize(session *domain.AlertSession) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "ALERT DISPATCH SUMMARY\n")
	fmt.Fprintf(&b, "%s\n", rule)
	elapsed := time.Duration(session.ElapsedMs) * time.Millisecond
	fmt.Fprintf(&b, "Session:  %s (%s)\n", session.SessionID, session.Status)
	fmt.Fprintf(&b, "Contacts: %d | Rounds: %d | Elapsed: %s\n", session.ContactCount, session.NumRounds, elapsed)

	for _, report := range session.Reports {
		fmt.Fprintf(&b, "\n%s\n", report.Contact.Phone)
		fmt.Fprintf(&b, "  Calls: %d/%d successful\n", report.SuccessfulCalls(), len(report.Calls))
		if report.SmsSent() {
			fmt.Fprintf(&b, "  SMS:   ✓ sent (id: %s)\n", report.Sms.ProviderMessageID)
		} else {
			fmt.Fprintf(&b, "  SMS:   ✗ failed\n")
		}
		for _, call := range report.Calls {
			switch call.Outcome {
			case domain.OutcomeSuccess:
				fmt.Fprintf(&b, "    Call #%d: %s (id: %s)\n", call.Round, call.ProviderStatus, call.ProviderCallID)
			case domain.OutcomeCancelled:
				fmt.Fprintf(&b, "    Call #%d: ✗ cancelled\n", call.Round)
			default:
				fmt.Fprintf(&b, "    Call #%d: ✗ failed\n", call.Round)
			}
		}
	}

	stats := SessionStats(session.Reports)
	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("-", 60))
	fmt.Fprintf(&b, "Total calls: %d/%d successful | SMS sent: %d/%d\n",
		stats.SuccessfulCalls, stats.TotalCalls, stats.SmsSent, stats.TotalSms)

	return b.String()
}
