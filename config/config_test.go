package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearCredentialEnv makes tests independent of the developer's shell.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GROQ_API_KEY", "LLM_API_KEY", "EITAA_BOT_TOKEN", "EITA_BOT_TOKEN", "PORT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadValidConfig(t *testing.T) {
	clearCredentialEnv(t)

	yamlConfig := `
server:
  port: 9090
  read_timeout: 45s
  write_timeout: 90s
  shutdown_timeout: 10s

llm:
  backend: gollm
  provider: groq
  base_url: https://api.groq.com/openai/v1
  api_key: gsk-test
  models:
    - model-a
    - model-b
  timeout: 20s

messenger:
  base_url: https://api.eitaa.com
  token: bot-token

logging:
  level: debug
  format: text

modes:
  hooks:
    temperature: 1.1
    max_tokens: 300
`

	config, err := Load(strings.NewReader(yamlConfig))
	if err != nil {
		t.Fatalf("Failed to load valid config: %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("unexpected port: got %d, want %d", config.Server.Port, 9090)
	}
	if config.Server.ReadTimeout != 45*time.Second {
		t.Errorf("unexpected read timeout: got %v, want %v", config.Server.ReadTimeout, 45*time.Second)
	}
	if config.LLM.Backend != BackendGollm {
		t.Errorf("unexpected backend: got %s, want %s", config.LLM.Backend, BackendGollm)
	}
	if got := strings.Join(config.LLM.Models, ","); got != "model-a,model-b" {
		t.Errorf("unexpected models: got %s", got)
	}
	if config.LLM.APIKey != "gsk-test" || !config.HasLLMCredentials() {
		t.Errorf("api key not loaded: %q", config.LLM.APIKey)
	}
	if !config.HasMessengerCredentials() {
		t.Error("expected messenger token to be loaded")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("unexpected log level: got %s, want debug", config.Logging.Level)
	}

	hooks, ok := config.Modes["hooks"]
	if !ok {
		t.Fatal("hooks mode override missing")
	}
	if hooks.Temperature == nil || *hooks.Temperature != 1.1 {
		t.Errorf("unexpected hooks temperature: %v", hooks.Temperature)
	}
	if hooks.MaxTokens != 300 {
		t.Errorf("unexpected hooks max tokens: %d", hooks.MaxTokens)
	}

	// Untouched sections keep their defaults.
	if len(config.Replies.Greeting) != 2 {
		t.Errorf("expected default greeting to survive, got %d messages", len(config.Replies.Greeting))
	}
	if config.Server.MaxBodyBytes != DefaultConfig().Server.MaxBodyBytes {
		t.Errorf("unexpected max body bytes: %d", config.Server.MaxBodyBytes)
	}
}

func TestLoadEmptyUsesDefaults(t *testing.T) {
	clearCredentialEnv(t)

	config, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Failed to load empty config: %v", err)
	}

	defaults := DefaultConfig()
	if config.Server.Port != defaults.Server.Port {
		t.Errorf("unexpected port: got %d, want %d", config.Server.Port, defaults.Server.Port)
	}
	if len(config.LLM.Models) != 3 || config.LLM.Models[0] != "llama-3.3-70b-versatile" {
		t.Errorf("unexpected default models: %v", config.LLM.Models)
	}
	if config.HasLLMCredentials() {
		t.Error("no api key expected without environment")
	}
	if config.HasMessengerCredentials() {
		t.Error("no bot token expected without environment")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	clearCredentialEnv(t)

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "invalid port",
			yaml:    "server:\n  port: 70000\n",
			wantErr: "port",
		},
		{
			name:    "empty model list",
			yaml:    "llm:\n  models: []\n",
			wantErr: "models",
		},
		{
			name:    "blank model name",
			yaml:    "llm:\n  models: [\"a\", \"\"]\n",
			wantErr: "models",
		},
		{
			name:    "unknown backend",
			yaml:    "llm:\n  backend: carrier-pigeon\n",
			wantErr: "backend",
		},
		{
			name:    "invalid log level",
			yaml:    "logging:\n  level: verbose\n",
			wantErr: "level",
		},
		{
			name:    "unknown mode override",
			yaml:    "modes:\n  poem:\n    max_tokens: 10\n",
			wantErr: "modes",
		},
		{
			name:    "temperature out of range",
			yaml:    "modes:\n  caption:\n    temperature: 3.5\n",
			wantErr: "temperature",
		},
		{
			name:    "negative max tokens",
			yaml:    "modes:\n  hooks:\n    max_tokens: -5\n",
			wantErr: "modes.hooks.max_tokens",
		},
		{
			name:    "negative temperature",
			yaml:    "modes:\n  design:\n    temperature: -0.1\n",
			wantErr: "modes.design.temperature",
		},
		{
			name:    "unknown field",
			yaml:    "llm:\n  model: gpt-4\n",
			wantErr: "decode config",
		},
		{
			name:    "empty greeting",
			yaml:    "replies:\n  greeting: []\n",
			wantErr: "greeting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	clearCredentialEnv(t)

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		config, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Server.Port != 8080 {
			t.Errorf("unexpected port: %d", config.Server.Port)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tavita.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		config, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Server.Port != 7070 {
			t.Errorf("unexpected port: %d", config.Server.Port)
		}
	})
}
