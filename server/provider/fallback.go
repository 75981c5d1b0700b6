package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is a successful completion and the model that produced it.
type Result struct {
	Text     string
	Model    string
	Attempts []Attempt
}

// Fallback tries an ordered model list one model at a time until one returns
// non-empty content. Every call starts again from the first model; nothing is
// remembered between calls.
type Fallback struct {
	completer Completer
	models    []string
	logger    *zap.Logger
}

// NewFallback returns a Fallback over models, primary first.
func NewFallback(completer Completer, models []string, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	list := make([]string, len(models))
	copy(list, models)
	return &Fallback{
		completer: completer,
		models:    list,
		logger:    logger,
	}
}

// Models returns a copy of the model list in preference order.
func (f *Fallback) Models() []string {
	out := make([]string, len(f.models))
	copy(out, f.models)
	return out
}

// Complete runs the fallback. Temperature and MaxTokens are taken from req;
// req.Model is ignored. On failure the returned error is a *FallbackError
// whose message is the last attempt's error.
func (f *Fallback) Complete(ctx context.Context, req Request) (*Result, error) {
	attempts := make([]Attempt, 0, len(f.models))
	var last error

	for _, model := range f.models {
		if err := ctx.Err(); err != nil {
			last = err
			break
		}

		req.Model = model
		start := time.Now()
		text, err := f.completer.Complete(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = ErrEmptyContent
		}
		attempt := Attempt{Model: model, Err: err, Duration: time.Since(start)}
		attempts = append(attempts, attempt)

		if err == nil {
			f.logger.Debug("completion succeeded",
				zap.String("model", model),
				zap.Int("attempt", len(attempts)),
				zap.Duration("duration", attempt.Duration))
			return &Result{Text: text, Model: model, Attempts: attempts}, nil
		}

		last = err
		f.logger.Warn("model attempt failed",
			zap.String("model", model),
			zap.Int("attempt", len(attempts)),
			zap.Duration("duration", attempt.Duration),
			zap.Error(err))

		// No other model can succeed without a credential.
		if errors.Is(err, ErrMissingAPIKey) {
			break
		}
	}

	return nil, &FallbackError{Attempts: attempts, Last: last}
}
