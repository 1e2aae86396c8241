// Package domain defines the core domain models for the dispatcher.
package domain

// SessionStatus represents the status of a dispatch session.
type SessionStatus string

const (
	SessionStatusCreated         SessionStatus = "CREATED"
	SessionStatusCallsInProgress SessionStatus = "CALLS_IN_PROGRESS"
	SessionStatusCallsComplete   SessionStatus = "CALLS_COMPLETE"
	SessionStatusSmsInProgress   SessionStatus = "SMS_IN_PROGRESS"
	SessionStatusComplete        SessionStatus = "COMPLETE"
	SessionStatusFailed          SessionStatus = "FAILED"
	SessionStatusCancelled       SessionStatus = "CANCELLED"
)

// Outcome represents the result of a single call or SMS attempt.
type Outcome string

const (
	OutcomeSuccess   Outcome = "SUCCESS"
	OutcomeFailure   Outcome = "FAILURE"
	OutcomeCancelled Outcome = "CANCELLED"
)

// EventType represents the type of a dispatch event.
type EventType string

const (
	EventTypeSessionStarted   EventType = "session_started"
	EventTypeRoundStarted     EventType = "round_started"
	EventTypeCallResolved     EventType = "call_resolved"
	EventTypeRoundComplete    EventType = "round_complete"
	EventTypeSmsStarted       EventType = "sms_started"
	EventTypeSmsResolved      EventType = "sms_resolved"
	EventTypeSmsComplete      EventType = "sms_complete"
	EventTypeSessionComplete  EventType = "session_complete"
	EventTypeSessionFailed    EventType = "session_failed"
	EventTypeSessionCancelled EventType = "session_cancelled"

	// Provider delivery-status callbacks
	EventTypeDeliveryStatus EventType = "delivery_status"
)
