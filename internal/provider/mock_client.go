package provider

import (
	"context"
	"fmt"
	"time"
)

// MockClient is a mock implementation of Notifier for local development and
// testing. Every call and message succeeds immediately.
type MockClient struct{}

// NewMockClient creates a new mock notifier.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Notifier interface.
var _ Notifier = (*MockClient)(nil)

// CreateCall returns a mock call resource.
func (m *MockClient) CreateCall(ctx context.Context, req *CallRequest) (*CallResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &CallResource{
		ID:     fmt.Sprintf("mock-CA-%d", time.Now().UnixNano()),
		Status: "queued",
	}, nil
}

// CreateMessage returns a mock message resource.
func (m *MockClient) CreateMessage(ctx context.Context, req *MessageRequest) (*MessageResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &MessageResource{
		ID:     fmt.Sprintf("mock-SM-%d", time.Now().UnixNano()),
		Status: "queued",
	}, nil
}
