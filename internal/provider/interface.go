// Package provider provides an abstraction for the telephony/SMS provider.
package provider

import "context"

// CallRequest represents a call-origination request.
type CallRequest struct {
	To             string
	From           string
	VoiceScriptRef string   // voice script (TwiML) URL executed when the call connects
	StatusCallback string   // optional URL the provider posts delivery status to
	CallbackEvents []string // call lifecycle events to report on the callback
}

// MessageRequest represents an SMS send request.
type MessageRequest struct {
	To   string
	From string
	Body string
}

// CallResource is the provider's record of an originated call.
type CallResource struct {
	ID     string `json:"sid"`
	Status string `json:"status"`
}

// MessageResource is the provider's record of a sent message.
type MessageResource struct {
	ID     string `json:"sid"`
	Status string `json:"status"`
}

// Notifier defines the interface for telephony/SMS provider operations.
type Notifier interface {
	// CreateCall originates one voice call.
	CreateCall(ctx context.Context, req *CallRequest) (*CallResource, error)

	// CreateMessage sends one SMS message.
	CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResource, error)
}

// Ensure Client implements Notifier interface.
var _ Notifier = (*Client)(nil)
