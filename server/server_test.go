package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teilomillet/tavita/config"
	"github.com/teilomillet/tavita/errors"
	"github.com/teilomillet/tavita/server/handlers"
	"github.com/teilomillet/tavita/server/mocks"
	"github.com/teilomillet/tavita/server/provider"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "gsk-test"
	cfg.LLM.Models = []string{"primary", "backup"}
	cfg.LLM.MaxContextTokens = 0
	cfg.Messenger.Token = "bot-token"
	cfg.Server.Port = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, completer provider.Completer, m *mocks.MockMessenger) *httptest.Server {
	t.Helper()
	srv, err := New(cfg, zaptest.NewLogger(t), WithCompleter(completer), WithMessenger(m))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServerChatRoute(t *testing.T) {
	completer := mocks.NewMockCompleter(func(ctx context.Context, req provider.Request) (string, error) {
		if req.Model == "primary" {
			return "", stderrors.New("rate limited")
		}
		return "سه تیتر\n\n\n\nجذاب", nil
	})
	ts := newTestServer(t, testConfig(), completer, mocks.NewMockMessenger())

	resp, err := http.Post(ts.URL+ChatPath, "application/json", strings.NewReader(`{"section":"hooks","topic":"بی‌خوابی"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body handlers.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.OK)
	assert.Equal(t, "hooks", string(body.Mode))
	assert.Equal(t, "سه تیتر\n\nجذاب", body.Answer)
	assert.Equal(t, []string{"primary", "backup"}, completer.Models())
}

func TestServerWebhookRoute(t *testing.T) {
	completer := mocks.NewMockCompleter(nil)
	messenger := mocks.NewMockMessenger()
	ts := newTestServer(t, testConfig(), completer, messenger)

	resp, err := http.Post(ts.URL+WebhookPath, "application/json",
		strings.NewReader(`{"update_id":1,"message":{"message_id":1,"chat":{"id":5},"text":"/start"}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, messenger.Sent(), 2)
	assert.Empty(t, completer.Requests())
}

func TestServerHealthAndMethods(t *testing.T) {
	ts := newTestServer(t, testConfig(), mocks.NewMockCompleter(nil), mocks.NewMockMessenger())

	resp, err := http.Get(ts.URL + HealthPath)
	require.NoError(t, err)
	var health handlers.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, Version, health.Version)

	for _, path := range []string{ChatPath, WebhookPath} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		var errResp errors.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
		assert.Equal(t, errors.MethodNotAllowedError, errResp.Type, path)
	}

	resp, err = http.Post(ts.URL+HealthPath, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServerCORSPreflight(t *testing.T) {
	ts := newTestServer(t, testConfig(), mocks.NewMockCompleter(nil), mocks.NewMockMessenger())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+ChatPath, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestServerWithoutAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.APIKey = ""
	completer := mocks.NewMockCompleter(nil)
	ts := newTestServer(t, cfg, completer, mocks.NewMockMessenger())

	resp, err := http.Post(ts.URL+ChatPath, "application/json", strings.NewReader(`{"idea":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var errResp errors.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, errors.ConfigError, errResp.Type)
	assert.Empty(t, completer.Requests())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.LLM.Backend = "carrier-pigeon"
	_, err = New(cfg, zaptest.NewLogger(t))
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Modes = map[string]config.ModeConfig{"design": {UserTemplate: "{{.missing}}"}}
	_, err = New(cfg, zaptest.NewLogger(t), WithCompleter(mocks.NewMockCompleter(nil)))
	assert.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := testConfig()

	c, err := newCompleter(cfg.LLM)
	require.NoError(t, err)
	assert.IsType(t, &provider.OpenAIClient{}, c)

	cfg.LLM.Backend = config.BackendGollm
	c, err = newCompleter(cfg.LLM)
	require.NoError(t, err)
	assert.IsType(t, &provider.GollmCompleter{}, c)
}

func TestServerStartAndShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ShutdownTimeout = time.Second
	srv, err := New(cfg, zaptest.NewLogger(t), WithCompleter(mocks.NewMockCompleter(nil)), WithMessenger(mocks.NewMockMessenger()))
	require.NoError(t, err)
	assert.Equal(t, ":0", srv.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
