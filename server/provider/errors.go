package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingAPIKey is returned before any network call when no
	// credential is configured
	ErrMissingAPIKey = errors.New("completion API key is not configured")

	// ErrEmptyContent marks a response that parsed but carried no text
	ErrEmptyContent = errors.New("model returned empty content")

	// ErrNoModelResponded is the failure reported when no attempt recorded
	// a structured error, e.g. an empty model list
	ErrNoModelResponded = errors.New("no model responded")
)

// StatusError is a non-2xx answer from the completion endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("completion endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, e.Message)
}

// Attempt records one model call made by the fallback.
type Attempt struct {
	Model    string
	Err      error
	Duration time.Duration
}

// FallbackError reports that every model in the list failed. Its message is
// the last recorded error so callers can surface it directly.
type FallbackError struct {
	Attempts []Attempt
	Last     error
}

func (e *FallbackError) Error() string {
	if e.Last == nil {
		return ErrNoModelResponded.Error()
	}
	return e.Last.Error()
}

func (e *FallbackError) Unwrap() error {
	if e.Last == nil {
		return ErrNoModelResponded
	}
	return e.Last
}

// Models returns the attempted model identifiers in order.
func (e *FallbackError) Models() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Model
	}
	return strings.Join(names, ",")
}
