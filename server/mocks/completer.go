package mocks

import (
	"context"
	"sync"

	"github.com/teilomillet/tavita/server/provider"
)

// MockCompleter implements provider.Completer with scripted per-model
// behaviour and records every request it receives, in order.
//
// Example usage:
//
//	c := NewMockCompleter(func(ctx context.Context, req provider.Request) (string, error) {
//	    if req.Model == "primary" {
//	        return "", errors.New("rate limited")
//	    }
//	    return "hello", nil
//	})
type MockCompleter struct {
	CompleteFunc func(context.Context, provider.Request) (string, error)

	mu       sync.Mutex
	requests []provider.Request
	inFlight int
	maxPar   int
}

// NewMockCompleter creates a MockCompleter. A nil completeFunc answers
// every request with "ok".
func NewMockCompleter(completeFunc func(context.Context, provider.Request) (string, error)) *MockCompleter {
	return &MockCompleter{CompleteFunc: completeFunc}
}

// Complete implements provider.Completer.
func (m *MockCompleter) Complete(ctx context.Context, req provider.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.inFlight++
	if m.inFlight > m.maxPar {
		m.maxPar = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "ok", nil
}

// Requests returns a copy of the recorded requests.
func (m *MockCompleter) Requests() []provider.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Models returns the model of every recorded request, in call order.
func (m *MockCompleter) Models() []string {
	reqs := m.Requests()
	models := make([]string, len(reqs))
	for i, r := range reqs {
		models[i] = r.Model
	}
	return models
}

// MaxConcurrent reports the highest number of overlapping Complete calls.
func (m *MockCompleter) MaxConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxPar
}
