package domain

import (
	"encoding/json"
	"time"
)

// Contact is one recipient in a dispatch session. Contacts are immutable for
// the session lifetime; Phone is the unique key within a session.
type Contact struct {
	Phone          string `json:"phone"`
	VoiceScriptRef string `json:"voice_script_ref"`
	SmsBody        string `json:"sms_body,omitempty"`
}

// CallResult records the outcome of one call attempt for one contact in one
// round. Created exactly once per (contact, round) pair; never mutated.
type CallResult struct {
	ContactPhone   string  `json:"contact_phone"`
	Round          int     `json:"round"`
	Outcome        Outcome `json:"outcome"`
	ProviderCallID string  `json:"provider_call_id,omitempty"`
	ProviderStatus string  `json:"provider_status,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// SmsResult records the outcome of the single SMS attempt for one contact.
type SmsResult struct {
	ContactPhone      string  `json:"contact_phone"`
	Outcome           Outcome `json:"outcome"`
	ProviderMessageID string  `json:"provider_message_id,omitempty"`
	ProviderStatus    string  `json:"provider_status,omitempty"`
	Error             string  `json:"error,omitempty"`
}

// ContactReport is the aggregated record for one contact: every call attempt
// in round order plus the single SMS outcome.
type ContactReport struct {
	Contact Contact      `json:"contact"`
	Calls   []CallResult `json:"calls"`
	Sms     SmsResult    `json:"sms"`
}

// SuccessfulCalls returns how many of the contact's call attempts succeeded.
func (r ContactReport) SuccessfulCalls() int {
	n := 0
	for _, c := range r.Calls {
		if c.Outcome == OutcomeSuccess {
			n++
		}
	}
	return n
}

// SmsSent reports whether the contact's SMS attempt succeeded.
func (r ContactReport) SmsSent() bool {
	return r.Sms.Outcome == OutcomeSuccess
}

// AlertSession is the aggregated record of one full dispatch run across all
// contacts: every call round plus the SMS pass.
type AlertSession struct {
	SessionID     string          `json:"session_id"`
	Status        SessionStatus   `json:"status"`
	OriginNumber  string          `json:"origin_number"`
	NumRounds     int             `json:"num_rounds"`
	WaitBetweenMs int64           `json:"wait_between_ms"`
	ContactCount  int             `json:"contact_count"`
	Reports       []ContactReport `json:"reports,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	EndedAt       *time.Time      `json:"ended_at,omitempty"`
	ElapsedMs     int64           `json:"elapsed_ms"`
	Error         string          `json:"error,omitempty"`
}

// Event is a trace event recorded during a dispatch session.
type Event struct {
	EventID   string          `json:"event_id"`
	SessionID string          `json:"session_id"`
	Ts        int64           `json:"ts"` // Unix milliseconds
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
