// Package errors provides the error handling system for the tavita service.
// It includes a structured error type, JSON response formatting, request ID
// tracking, and integrated logging with Uber's zap logger.
//
// Every failure leaving an HTTP handler is rendered with the same shape:
//
//	{"ok": false, "error": "...", "type": "validation_error", "request_id": "..."}
//
// Basic usage:
//
//	// Type-specific error
//	errors.ErrorWithType(w, "Invalid input", errors.ValidationError, http.StatusBadRequest)
//
//	// Constructed error with context
//	errors.WriteError(w, errors.NewConfigError(requestID, "completion API key is not configured"))
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the default zap logger instance used throughout the package.
// It is initialized to a production configuration but can be overridden using SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger allows setting a custom zap logger instance.
// A nil logger is ignored.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType represents the categories of errors the service reports.
type ErrorType string

const (
	// ConfigError represents a missing or invalid required setting
	ConfigError ErrorType = "config_error"

	// ValidationError represents malformed or missing input
	ValidationError ErrorType = "validation_error"

	// MethodNotAllowedError represents a request with an unsupported HTTP method
	MethodNotAllowedError ErrorType = "method_not_allowed"

	// UpstreamError represents a failure of every model in the fallback list
	UpstreamError ErrorType = "upstream_error"

	// InternalError represents unexpected internal server errors
	InternalError ErrorType = "internal_error"
)

// ServiceError is the error type rendered to API clients. It keeps the
// underlying cause for logging without exposing it in JSON.
type ServiceError struct {
	// Type categorizes the error for client handling
	Type ErrorType `json:"type"`

	// Message is a human-readable error description
	Message string `json:"error"`

	// Code is the HTTP status code (not exposed in JSON)
	Code int `json:"-"`

	// RequestID links the error to a specific request
	RequestID string `json:"request_id,omitempty"`

	// Details contains additional error context
	Details map[string]interface{} `json:"details,omitempty"`

	err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.err
}

// Is matches on error type only, so errors.Is(err, &ServiceError{Type: ConfigError})
// works regardless of message or request.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// MarshalJSON adds the constant "ok": false member expected by clients.
func (e *ServiceError) MarshalJSON() ([]byte, error) {
	type alias ServiceError
	return json.Marshal(struct {
		OK bool `json:"ok"`
		*alias
	}{
		OK:    false,
		alias: (*alias)(e),
	})
}

// WriteError formats and writes a ServiceError to an http.ResponseWriter.
func WriteError(w http.ResponseWriter, err *ServiceError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	if encErr := json.NewEncoder(w).Encode(err); encErr != nil {
		DefaultLogger.Error("failed to encode error response", zap.Error(encErr))
	}
}

// ErrorWithType writes an error of the given type, picking up the request ID
// from the response headers set by the request ID middleware.
func ErrorWithType(w http.ResponseWriter, message string, errType ErrorType, code int) {
	WriteError(w, &ServiceError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: w.Header().Get("X-Request-ID"),
	})
}
