package errors

import (
	"net/http"
)

// NewError creates a new ServiceError with full control over its fields.
// For most cases, use one of the specialized constructors below.
func NewError(errType ErrorType, message string, code int, requestID string, details map[string]interface{}, err error) *ServiceError {
	return &ServiceError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Details:   details,
		err:       err,
	}
}

// NewConfigError reports a required setting that is missing, such as the
// completion API key. It is a server-side problem, hence 500.
//
// Example:
//
//	err := NewConfigError("req_123", "completion API key is not configured")
func NewConfigError(requestID, message string) *ServiceError {
	return &ServiceError{
		Type:      ConfigError,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
	}
}

// NewValidationError creates a validation error with appropriate defaults.
// Use this for request validation failures, such as:
//   - Malformed JSON bodies
//   - Fields exceeding their size limits
//   - Prompts exceeding the token budget
//
// Example:
//
//	err := NewValidationError("req_123", "Invalid request body", map[string]interface{}{
//	    "field": "idea",
//	    "error": "too long",
//	})
func NewValidationError(requestID, message string, validationDetails map[string]interface{}) *ServiceError {
	return &ServiceError{
		Type:      ValidationError,
		Message:   message,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
		Details:   validationDetails,
	}
}

// NewMethodNotAllowedError rejects a request made with an unsupported method.
func NewMethodNotAllowedError(requestID, method string, allowed ...string) *ServiceError {
	return &ServiceError{
		Type:      MethodNotAllowedError,
		Message:   "Method not allowed",
		Code:      http.StatusMethodNotAllowed,
		RequestID: requestID,
		Details: map[string]interface{}{
			"method":          method,
			"allowed_methods": allowed,
		},
	}
}

// NewUpstreamError reports that no model in the fallback list produced an
// answer. The message carries the last upstream failure when there is one.
//
// Example:
//
//	err := NewUpstreamError("req_123", fallbackErr)
func NewUpstreamError(requestID string, err error) *ServiceError {
	message := "No model produced a response"
	if err != nil {
		message = err.Error()
	}
	return &ServiceError{
		Type:      UpstreamError,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewInternalError creates an internal server error for anything not covered
// by the other constructors, including recovered panics.
func NewInternalError(requestID string, err error) *ServiceError {
	return &ServiceError{
		Type:      InternalError,
		Message:   "An internal error occurred",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}
