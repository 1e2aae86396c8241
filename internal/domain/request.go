package domain

// TriggerRequest is the request to start a dispatch session. Contacts may be
// omitted to dispatch to the service's configured roster; NumRounds falls back
// to the configured default when zero. WaitBetweenMs is a pointer so an
// explicit 0 (no pause between rounds) is distinguishable from absent.
type TriggerRequest struct {
	Contacts      []Contact `json:"contacts,omitempty"`
	NumRounds     int       `json:"num_rounds,omitempty"`
	WaitBetweenMs *int64    `json:"wait_between_ms,omitempty"`
	OriginNumber  string    `json:"origin_number,omitempty"`
}

// TriggerResponse is the response after a dispatch session is accepted.
type TriggerResponse struct {
	SessionID    string        `json:"session_id"`
	Status       SessionStatus `json:"status"`
	ContactCount int           `json:"contact_count"`
	NumRounds    int           `json:"num_rounds"`
}

// DeliveryStatus is a provider status callback for an originated call.
type DeliveryStatus struct {
	ProviderCallID string `json:"provider_call_id" form:"CallSid"`
	To             string `json:"to" form:"To"`
	Status         string `json:"status" form:"CallStatus"`
}
