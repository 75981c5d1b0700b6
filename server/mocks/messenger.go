package mocks

import (
	"context"
	"sync"
)

// SentMessage is one message captured by MockMessenger.
type SentMessage struct {
	ChatID int64
	Text   string
}

// MockMessenger records outgoing chat messages instead of sending them.
// SendFunc, when set, decides the error returned for each send.
type MockMessenger struct {
	SendFunc func(ctx context.Context, chatID int64, text string) error

	mu   sync.Mutex
	sent []SentMessage
}

// NewMockMessenger creates a MockMessenger whose sends always succeed.
func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

// SendMessage records the message and returns SendFunc's result.
func (m *MockMessenger) SendMessage(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{ChatID: chatID, Text: text})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, chatID, text)
	}
	return nil
}

// Sent returns a copy of the recorded messages in send order.
func (m *MockMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
