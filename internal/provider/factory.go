package provider

import (
	"log"
	"time"
)

const (
	// ModeMock indicates the mock notifier should be used.
	ModeMock = "MOCK"
	// ModeTwilio indicates the real Twilio REST client should be used.
	ModeTwilio = "TWILIO"
)

// NewNotifier creates a notifier based on the provider mode.
// If mode is MOCK, returns a MockClient; otherwise returns a real Client.
func NewNotifier(mode, baseURL, accountSID, authToken string, timeout time.Duration) Notifier {
	if mode == ModeMock {
		log.Println("PROVIDER_MODE=MOCK detected, using mock notifier")
		return NewMockClient()
	}

	return NewClient(baseURL, accountSID, authToken, timeout)
}
