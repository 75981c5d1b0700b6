// Package messenger sends chat messages through a Telegram-compatible bot
// API. The Eitaa bot API follows the Telegram wire format, so the
// telegram-bot-api client is pointed at Eitaa's endpoint.
package messenger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ErrNoToken is returned by SendMessage when no bot token is configured.
var ErrNoToken = errors.New("bot token is not configured")

// Messenger delivers a text message to a chat.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Eitaa sends messages through the Eitaa bot API.
type Eitaa struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewEitaa returns a messenger for baseURL (e.g. https://api.eitaa.com).
// An empty token yields a messenger whose sends fail with ErrNoToken, so a
// missing credential never stops the process. A nil httpClient gets one with
// the given timeout.
func NewEitaa(baseURL, token string, timeout time.Duration, httpClient *http.Client, logger *zap.Logger) *Eitaa {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	e := &Eitaa{logger: logger}
	if token == "" {
		return e
	}

	// Built by hand: tgbotapi.NewBotAPI calls getMe, which would make
	// construction depend on the network.
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: httpClient,
		Buffer: 100,
	}
	bot.SetAPIEndpoint(strings.TrimRight(baseURL, "/") + "/bot%s/%s")
	e.bot = bot
	return e
}

// Enabled reports whether a bot token is configured.
func (e *Eitaa) Enabled() bool {
	return e.bot != nil
}

// SendMessage posts text to chatID. The context is checked before sending;
// the request itself is bounded by the HTTP client timeout.
func (e *Eitaa) SendMessage(ctx context.Context, chatID int64, text string) error {
	if e.bot == nil {
		e.logger.Error("message not sent", zap.Int64("chat_id", chatID), zap.Error(ErrNoToken))
		return ErrNoToken
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	resp, err := e.bot.Request(msg)
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	if !resp.Ok {
		return fmt.Errorf("send message to chat %d: %s", chatID, resp.Description)
	}

	e.logger.Debug("message sent", zap.Int64("chat_id", chatID), zap.Int("length", len([]rune(text))))
	return nil
}
