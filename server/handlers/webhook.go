package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/teilomillet/tavita/config"
	"github.com/teilomillet/tavita/errors"
	"github.com/teilomillet/tavita/server/messenger"
	"github.com/teilomillet/tavita/server/middleware"
	"github.com/teilomillet/tavita/server/processing"
	"github.com/teilomillet/tavita/server/prompt"
	"go.uber.org/zap"
)

// StartCommand is answered with the greeting instead of a generated reply.
const StartCommand = "/start"

// WebhookResponse is the body returned to the bot platform.
type WebhookResponse struct {
	OK bool `json:"ok"`
}

// WebhookHandler serves POST /api/eitaa. It answers chat messages by running
// them through the pipeline and sending the result back to the chat. The
// platform always gets a 200 for POST requests so it never redelivers.
type WebhookHandler struct {
	pipeline     Pipeline
	messenger    messenger.Messenger
	replies      config.RepliesConfig
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewWebhookHandler creates the webhook relay.
func NewWebhookHandler(pipeline Pipeline, m messenger.Messenger, replies config.RepliesConfig, maxBodyBytes int64, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		pipeline:     pipeline,
		messenger:    m,
		replies:      replies,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		errors.WriteError(w, errors.NewMethodNotAllowedError(requestID, r.Method, http.MethodPost))
		return
	}

	logger := requestLogger(h.logger, r, requestID)

	body, err := readBody(w, r, h.maxBodyBytes)
	if err != nil {
		logger.Warn("Unreadable update", zap.Error(err))
		h.respond(w, logger, false)
		return
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		logger.Warn("Malformed update", zap.Error(err))
		h.respond(w, logger, false)
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Chat.ID == 0 {
		logger.Debug("Update without a chat message ignored", zap.Int("update_id", update.UpdateID))
		h.respond(w, logger, true)
		return
	}

	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	logger = logger.With(zap.Int64("chat_id", chatID))

	switch {
	case text == StartCommand:
		for _, greeting := range h.replies.Greeting {
			h.send(r.Context(), logger, chatID, greeting)
		}
		h.respond(w, logger, true)

	case text == "":
		h.send(r.Context(), logger, chatID, h.replies.NonText)
		h.respond(w, logger, true)

	default:
		resp, err := h.process(r.Context(), text)
		if err != nil {
			logger.Error("Relay failed", zap.Error(err))
			h.send(r.Context(), logger, chatID, h.replies.Apology)
			h.respond(w, logger, false)
			return
		}
		logger.Info("Relayed reply",
			zap.String("mode", string(resp.Mode)),
			zap.String("model", resp.Model),
		)
		h.send(r.Context(), logger, chatID, resp.Answer)
		h.respond(w, logger, true)
	}
}

// process runs the pipeline for a chat message. A panic is returned as an
// error so the chat still gets the apology and the platform still gets a 200.
func (h *WebhookHandler) process(ctx context.Context, text string) (resp *processing.Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp, err = nil, fmt.Errorf("pipeline panic: %v", rec)
		}
	}()
	return h.pipeline.Process(ctx, prompt.Payload{"text": text})
}

// send delivers one message. Failures are logged and otherwise ignored since
// the webhook answer cannot report them to the user.
func (h *WebhookHandler) send(ctx context.Context, logger *zap.Logger, chatID int64, text string) {
	if err := h.messenger.SendMessage(ctx, chatID, text); err != nil {
		logger.Error("Failed to send message", zap.Error(err))
	}
}

func (h *WebhookHandler) respond(w http.ResponseWriter, logger *zap.Logger, ok bool) {
	if err := writeJSON(w, http.StatusOK, WebhookResponse{OK: ok}); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
