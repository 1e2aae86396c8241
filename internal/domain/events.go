package domain

// SessionStartedPayload is the payload for session_started event.
type SessionStartedPayload struct {
	ContactCount  int   `json:"contact_count"`
	NumRounds     int   `json:"num_rounds"`
	WaitBetweenMs int64 `json:"wait_between_ms"`
}

// RoundStartedPayload is the payload for round_started event.
type RoundStartedPayload struct {
	Round        int `json:"round"`
	ContactCount int `json:"contact_count"`
}

// CallResolvedPayload is the payload for call_resolved event.
type CallResolvedPayload struct {
	Phone          string  `json:"phone"`
	Round          int     `json:"round"`
	Outcome        Outcome `json:"outcome"`
	ProviderCallID string  `json:"provider_call_id,omitempty"`
	ProviderStatus string  `json:"provider_status,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// RoundCompletePayload is the payload for round_complete event.
type RoundCompletePayload struct {
	Round     int `json:"round"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SmsStartedPayload is the payload for sms_started event.
type SmsStartedPayload struct {
	ContactCount int `json:"contact_count"`
}

// SmsResolvedPayload is the payload for sms_resolved event.
type SmsResolvedPayload struct {
	Phone             string  `json:"phone"`
	Outcome           Outcome `json:"outcome"`
	ProviderMessageID string  `json:"provider_message_id,omitempty"`
	ProviderStatus    string  `json:"provider_status,omitempty"`
	Error             string  `json:"error,omitempty"`
}

// SmsCompletePayload is the payload for sms_complete event.
type SmsCompletePayload struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SessionCompletePayload is the payload for session_complete event.
type SessionCompletePayload struct {
	ElapsedMs       int64 `json:"elapsed_ms"`
	TotalCalls      int   `json:"total_calls"`
	SuccessfulCalls int   `json:"successful_calls"`
	SmsSent         int   `json:"sms_sent"`
}

// SessionFailedPayload is the payload for session_failed event.
type SessionFailedPayload struct {
	Error string `json:"error"`
}

// SessionCancelledPayload is the payload for session_cancelled event.
type SessionCancelledPayload struct {
	Reason string `json:"reason,omitempty"`
}

// DeliveryStatusPayload is the payload for delivery_status event, recorded
// when the provider posts a status callback for an originated call.
type DeliveryStatusPayload struct {
	ProviderCallID string `json:"provider_call_id"`
	To             string `json:"to,omitempty"`
	Status         string `json:"status"`
}
