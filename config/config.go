// Package config provides configuration management for the tavita content
// assistant. Configuration is read once at process start from an optional YAML
// file, an optional .env file and the environment, and is treated as immutable
// for the lifetime of the process.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Backends accepted in LLMConfig.Backend.
const (
	BackendOpenAI = "openai"
	BackendGollm  = "gollm"
)

// Config represents the complete service configuration.
type Config struct {
	Server    ServerConfig          `yaml:"server"`
	LLM       LLMConfig             `yaml:"llm"`
	Messenger MessengerConfig       `yaml:"messenger"`
	Logging   LoggingConfig         `yaml:"logging"`
	Modes     map[string]ModeConfig `yaml:"modes" validate:"omitempty,dive,keys,oneof=caption hooks design,endkeys"`
	Replies   RepliesConfig         `yaml:"replies"`
}

// ServerConfig holds server-specific configuration for the HTTP server.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 8080)
	Port int `yaml:"port" validate:"gte=0,lte=65535"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body (default: 15s)
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"gte=0"`

	// WriteTimeout must leave room for the whole fallback list to run,
	// since the webhook answers only after relaying (default: 120s)
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" validate:"gte=0"`

	// MaxBodyBytes caps inbound JSON bodies (default: 64KB)
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gt=0"`

	// ShutdownTimeout specifies how long to wait for in-flight requests
	// when the process is asked to stop (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// LLMConfig holds the chat-completion provider configuration.
type LLMConfig struct {
	// Backend selects the completion transport: "openai" talks to any
	// OpenAI-compatible endpoint directly, "gollm" goes through gollm.
	Backend string `yaml:"backend" validate:"oneof=openai gollm"`

	// Provider is the gollm provider name (e.g. "groq", "openai")
	Provider string `yaml:"provider" validate:"required"`

	// BaseURL of the OpenAI-compatible API, without the /chat/completions suffix
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// APIKey is the bearer credential. It may be empty at load time; the
	// completion endpoint then answers with a configuration error.
	APIKey string `yaml:"api_key"`

	// Models is the ordered fallback list, primary first
	Models []string `yaml:"models" validate:"required,min=1,dive,required"`

	// Timeout applied by the HTTP transport to each completion call
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// MaxContextTokens bounds system+user prompt tokens plus max_tokens.
	// Zero disables the check.
	MaxContextTokens int `yaml:"max_context_tokens" validate:"gte=0"`

	// TokenEncoding is the tiktoken encoding used to estimate prompt size
	TokenEncoding string `yaml:"token_encoding"`
}

// MessengerConfig configures the outbound Eitaa bot API client.
type MessengerConfig struct {
	// BaseURL is the bot API root; requests go to {BaseURL}/bot<token>/<method>
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// Token is the bot token. Empty disables sending.
	Token string `yaml:"token"`

	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format specifies log output format: json or text
	Format string `yaml:"format" validate:"oneof=json text"`
}

// ModeConfig overrides the built-in prompt and generation parameters of one
// content mode. Empty fields keep the built-in value.
type ModeConfig struct {
	SystemPrompt string   `yaml:"system_prompt"`
	UserTemplate string   `yaml:"user_template"`
	Temperature  *float64 `yaml:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens    int      `yaml:"max_tokens" validate:"gte=0"`
}

// RepliesConfig holds the fixed chat messages sent by the webhook relay.
type RepliesConfig struct {
	// Greeting messages are sent in order in response to /start
	Greeting []string `yaml:"greeting" validate:"required,min=1,dive,required"`

	// Apology is sent when the pipeline fails for a chat message
	Apology string `yaml:"apology" validate:"required"`

	// NonText is sent when an update carries no text (stickers, photos...)
	NonText string `yaml:"non_text" validate:"required"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    120 * time.Second,
			MaxHeaderBytes:  1 << 20,
			MaxBodyBytes:    64 << 10,
			ShutdownTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Backend:  BackendOpenAI,
			Provider: "groq",
			BaseURL:  "https://api.groq.com/openai/v1",
			Models: []string{
				"llama-3.3-70b-versatile",
				"llama-3.1-70b-versatile",
				"llama-3.1-8b-instant",
			},
			Timeout:          30 * time.Second,
			MaxContextTokens: 8192,
			TokenEncoding:    "cl100k_base",
		},
		Messenger: MessengerConfig{
			BaseURL: "https://api.eitaa.com",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Replies: RepliesConfig{
			Greeting: []string{
				"سلام 👋 من طاویتا هستم؛ دستیار هوشمند تولید محتوا در ایتا.",
				"ایده پست، توضیح محصول یا هدفت رو بنویس؛ من برات کپشن و تیترهای جذاب می‌سازم 🌿",
			},
			Apology: "❌ خطا در اتصال به سرور. کمی بعد دوباره تلاش کن.",
			NonText: "فعلاً فقط پیام متنی رو می‌فهمم؛ ایده‌ات رو به صورت متن بفرست ✍️",
		},
	}
}

// LoadFile loads configuration from a YAML file. A missing file is not an
// error: defaults and environment overrides are used instead.
func LoadFile(filename string) (*Config, error) {
	if filename == "" {
		return Load(strings.NewReader(""))
	}

	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(strings.NewReader(""))
		}
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load loads configuration from an io.Reader holding YAML. ${VAR} and
// ${VAR:-default} references are expanded before decoding, values are decoded
// on top of DefaultConfig, then environment overrides are applied.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := DefaultConfig()

	expanded := expandEnvVars(string(data))
	if strings.TrimSpace(expanded) != "" {
		dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
		dec.KnownFields(true)
		if err := dec.Decode(config); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// expandEnvVars resolves ${VAR} and ${VAR:-default} references. The default
// is used when the variable is unset or empty.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			if val := os.Getenv(key[:i]); val != "" {
				return val
			}
			return key[i+2:]
		}
		return os.Getenv(key)
	})
}

// applyEnvOverrides copies credentials and a few operational knobs from the
// environment. Credentials given in the file win over the environment.
func applyEnvOverrides(c *Config) error {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = firstEnv("GROQ_API_KEY", "LLM_API_KEY")
	}
	if c.Messenger.Token == "" {
		c.Messenger.Token = firstEnv("EITAA_BOT_TOKEN", "EITA_BOT_TOKEN")
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid. Missing credentials are
// allowed here; they degrade individual features at request time.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return validationError("", err)
	}

	// Map values are not reached by dive without value tags, so overrides
	// are checked one by one.
	names := make([]string, 0, len(c.Modes))
	for name := range c.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validate.Struct(c.Modes[name]); err != nil {
			return validationError("modes."+name+".", err)
		}
	}
	return nil
}

// validationError reports the first failed field of a validator error.
func validationError(prefix string, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if prefix != "" {
			field = prefix + fe.Field()
		}
		return fmt.Errorf("invalid %s: failed on %q (value %v)", field, fe.Tag(), fe.Value())
	}
	return err
}

// HasLLMCredentials reports whether a completion API key is configured.
func (c *Config) HasLLMCredentials() bool {
	return c.LLM.APIKey != ""
}

// HasMessengerCredentials reports whether a bot token is configured.
func (c *Config) HasMessengerCredentials() bool {
	return c.Messenger.Token != ""
}
