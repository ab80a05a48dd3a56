package mocks

import (
	"context"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a testify mock of chatui.Transport. Inbound events are
// fed through EventsCh.
type MockTransport struct {
	mock.Mock
	EventsCh chan chatui.Event
}

// NewMockTransport creates a mock with a buffered event channel
func NewMockTransport() *MockTransport {
	return &MockTransport{EventsCh: make(chan chatui.Event, 16)}
}

func (m *MockTransport) Events() <-chan chatui.Event {
	return m.EventsCh
}

func (m *MockTransport) Emit(ctx context.Context, event string, payload any) error {
	args := m.Called(event, payload)
	return args.Error(0)
}
