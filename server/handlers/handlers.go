// Package handlers provides the HTTP handlers of the tavita server: the
// content completion endpoint, the Eitaa webhook relay and the health check.
//
// The package follows these design principles:
// 1. Consistent error handling using the errors package
// 2. Structured logging with request IDs
// 3. One pipeline shared by every entry point
package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/teilomillet/tavita/errors"
	"github.com/teilomillet/tavita/server/processing"
	"github.com/teilomillet/tavita/server/prompt"
	"github.com/teilomillet/tavita/server/provider"
	"github.com/teilomillet/tavita/server/validation"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes is used when a handler is built without a body limit.
const DefaultMaxBodyBytes = 64 << 10

// Pipeline turns a payload into a normalized answer.
type Pipeline interface {
	Process(ctx context.Context, payload prompt.Payload) (*processing.Response, error)
}

// PayloadValidator rejects payloads before they reach the pipeline.
type PayloadValidator interface {
	Validate(p prompt.Payload) error
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}

// bodyError converts a body read failure into a validation error.
func bodyError(requestID string, err error) *errors.ServiceError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.NewValidationError(requestID, "Request body too large", map[string]interface{}{
			"max_bytes": tooLarge.Limit,
		})
	}
	return errors.NewValidationError(requestID, "Failed to read request body", nil)
}

// pipelineError maps a pipeline failure to the error rendered to clients.
func pipelineError(requestID string, err error) *errors.ServiceError {
	var (
		verr      *validation.Error
		budgetErr *processing.BudgetError
		fbErr     *provider.FallbackError
	)
	switch {
	case stderrors.As(err, &verr):
		return errors.NewValidationError(requestID, "Invalid request payload", map[string]interface{}{
			"errors": verr.Details,
		})
	case stderrors.As(err, &budgetErr):
		return errors.NewValidationError(requestID, "Request is too long for the model", map[string]interface{}{
			"prompt_tokens": budgetErr.PromptTokens,
			"max_tokens":    budgetErr.MaxTokens,
			"limit":         budgetErr.Limit,
		})
	case stderrors.Is(err, provider.ErrMissingAPIKey):
		return errors.NewConfigError(requestID, provider.ErrMissingAPIKey.Error())
	case stderrors.As(err, &fbErr):
		return errors.NewUpstreamError(requestID, fbErr)
	default:
		return errors.NewInternalError(requestID, err)
	}
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return nil
}

// requestLogger returns a logger carrying the request's identifying fields.
func requestLogger(logger *zap.Logger, r *http.Request, requestID string) *zap.Logger {
	return logger.With(
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
	)
}
