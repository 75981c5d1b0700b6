package handlers

import (
	"bytes"
	"net/http"

	"github.com/teilomillet/tavita/errors"
	"github.com/teilomillet/tavita/server/middleware"
	"github.com/teilomillet/tavita/server/prompt"
	"github.com/teilomillet/tavita/server/provider"
	"go.uber.org/zap"
)

// ChatResponse is the success body of the completion endpoint.
type ChatResponse struct {
	OK     bool        `json:"ok"`
	Mode   prompt.Mode `json:"mode"`
	Answer string      `json:"answer"`
}

// ChatOptions configures a ChatHandler.
type ChatOptions struct {
	// HasCredentials is false when no completion API key is configured;
	// every request then fails with a configuration error before any
	// upstream call.
	HasCredentials bool

	// MaxBodyBytes caps the request body (default DefaultMaxBodyBytes)
	MaxBodyBytes int64
}

// ChatHandler serves POST /api/chat: a flat JSON payload in, a normalized
// caption, hook list or design brief out.
type ChatHandler struct {
	pipeline  Pipeline
	validator PayloadValidator
	opts      ChatOptions
	logger    *zap.Logger
}

// NewChatHandler creates the completion handler. validator may be nil.
func NewChatHandler(pipeline Pipeline, validator PayloadValidator, opts ChatOptions, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		pipeline:  pipeline,
		validator: validator,
		opts:      opts,
		logger:    logger,
	}
}

// ServeHTTP implements http.Handler.
//
// Error Handling:
// - MethodNotAllowed: anything but POST
// - ConfigError: no completion API key
// - ValidationError: unreadable, malformed or oversized payloads
// - UpstreamError: every model in the fallback list failed
// - InternalError: anything else
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		errors.WriteError(w, errors.NewMethodNotAllowedError(requestID, r.Method, http.MethodPost))
		return
	}

	logger := requestLogger(h.logger, r, requestID)

	if !h.opts.HasCredentials {
		svcErr := errors.NewConfigError(requestID, provider.ErrMissingAPIKey.Error())
		errors.LogError(logger, svcErr, requestID)
		errors.WriteError(w, svcErr)
		return
	}

	body, err := readBody(w, r, h.opts.MaxBodyBytes)
	if err != nil {
		svcErr := bodyError(requestID, err)
		errors.LogError(logger, svcErr, requestID)
		errors.WriteError(w, svcErr)
		return
	}

	payload := prompt.Payload{}
	if len(bytes.TrimSpace(body)) > 0 {
		payload, err = prompt.PayloadFromJSON(body)
		if err != nil {
			svcErr := errors.NewValidationError(requestID, "Invalid request body", map[string]interface{}{
				"reason": err.Error(),
			})
			errors.LogError(logger, svcErr, requestID)
			errors.WriteError(w, svcErr)
			return
		}
	}

	if h.validator != nil {
		if err := h.validator.Validate(payload); err != nil {
			svcErr := pipelineError(requestID, err)
			errors.LogError(logger, svcErr, requestID)
			errors.WriteError(w, svcErr)
			return
		}
	}

	logger.Debug("Processing request", zap.Int("fields", len(payload)))

	resp, err := h.pipeline.Process(r.Context(), payload)
	if err != nil {
		svcErr := pipelineError(requestID, err)
		errors.LogError(logger, svcErr, requestID)
		errors.WriteError(w, svcErr)
		return
	}

	if err := writeJSON(w, http.StatusOK, ChatResponse{OK: true, Mode: resp.Mode, Answer: resp.Answer}); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
		return
	}

	logger.Debug("Request successful",
		zap.String("mode", string(resp.Mode)),
		zap.String("model", resp.Model),
		zap.Int("answer_length", len([]rune(resp.Answer))),
	)
}
