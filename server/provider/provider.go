// Package provider implements chat-completion access: the Completer
// transports and the ordered model fallback built on top of them.
package provider

import (
	"context"
)

// Request is a single chat-completion attempt against one model.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer performs one chat-completion call. Implementations return the
// assistant message content as received; the fallback decides what counts
// as usable.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
