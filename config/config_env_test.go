package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnvironmentVariableExpansion tests ${VAR} handling inside the YAML file
func TestEnvironmentVariableExpansion(t *testing.T) {
	clearCredentialEnv(t)

	testCases := []struct {
		name       string
		envVars    map[string]string
		yamlConfig string
		validate   func(*testing.T, *Config)
	}{
		{
			name: "basic env var expansion",
			envVars: map[string]string{
				"MY_GROQ_KEY": "gsk-123",
			},
			yamlConfig: `
llm:
  api_key: ${MY_GROQ_KEY}`,
			validate: func(t *testing.T, c *Config) {
				if c.LLM.APIKey != "gsk-123" {
					t.Errorf("API key not expanded correctly, got %s, want gsk-123", c.LLM.APIKey)
				}
			},
		},
		{
			name:    "missing env var",
			envVars: map[string]string{},
			yamlConfig: `
llm:
  api_key: ${MISSING_API_KEY}`,
			validate: func(t *testing.T, c *Config) {
				if c.LLM.APIKey != "" {
					t.Errorf("Missing env var should expand to empty string, got %s", c.LLM.APIKey)
				}
			},
		},
		{
			name: "multiple env vars in single value",
			envVars: map[string]string{
				"API_HOST":    "api.groq.com",
				"API_VERSION": "v1",
			},
			yamlConfig: `
llm:
  base_url: https://${API_HOST}/openai/${API_VERSION}`,
			validate: func(t *testing.T, c *Config) {
				expected := "https://api.groq.com/openai/v1"
				if c.LLM.BaseURL != expected {
					t.Errorf("Multiple env vars not expanded correctly, got %s, want %s", c.LLM.BaseURL, expected)
				}
			},
		},
		{
			name:    "default value syntax",
			envVars: map[string]string{},
			yamlConfig: `
server:
  port: ${TAVITA_TEST_PORT:-8181}`,
			validate: func(t *testing.T, c *Config) {
				if c.Server.Port != 8181 {
					t.Errorf("default value not applied, got %d", c.Server.Port)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(strings.NewReader(tc.yamlConfig))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.validate(t, cfg)
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Run("credentials come from the environment", func(t *testing.T) {
		clearCredentialEnv(t)
		t.Setenv("GROQ_API_KEY", "gsk-env")
		t.Setenv("EITAA_BOT_TOKEN", "bot-env")
		t.Setenv("PORT", "9999")
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg, err := Load(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.LLM.APIKey != "gsk-env" {
			t.Errorf("unexpected api key: %q", cfg.LLM.APIKey)
		}
		if cfg.Messenger.Token != "bot-env" {
			t.Errorf("unexpected token: %q", cfg.Messenger.Token)
		}
		if cfg.Server.Port != 9999 {
			t.Errorf("unexpected port: %d", cfg.Server.Port)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("unexpected level: %s", cfg.Logging.Level)
		}
	})

	t.Run("legacy token name", func(t *testing.T) {
		clearCredentialEnv(t)
		t.Setenv("EITA_BOT_TOKEN", "legacy")

		cfg, err := Load(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Messenger.Token != "legacy" {
			t.Errorf("unexpected token: %q", cfg.Messenger.Token)
		}
	})

	t.Run("file credentials win", func(t *testing.T) {
		clearCredentialEnv(t)
		t.Setenv("GROQ_API_KEY", "gsk-env")

		cfg, err := Load(strings.NewReader("llm:\n  api_key: gsk-file\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.LLM.APIKey != "gsk-file" {
			t.Errorf("unexpected api key: %q", cfg.LLM.APIKey)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		clearCredentialEnv(t)
		t.Setenv("PORT", "eighty")

		if _, err := Load(strings.NewReader("")); err == nil {
			t.Fatal("expected error for non-numeric PORT")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearCredentialEnv(t)
	// godotenv never overrides a variable that exists, even when empty.
	os.Unsetenv("GROQ_API_KEY")
	t.Setenv("TAVITA_DOTENV_PRESET", "from-shell")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "GROQ_API_KEY=gsk-dotenv\nTAVITA_DOTENV_PRESET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != path {
		t.Errorf("unexpected loaded files: %v", loaded)
	}
	if got := os.Getenv("TAVITA_DOTENV_PRESET"); got != "from-shell" {
		t.Errorf("existing variable overwritten: %q", got)
	}

	cfg, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.APIKey != "gsk-dotenv" {
		t.Errorf("unexpected api key: %q", cfg.LLM.APIKey)
	}
}
