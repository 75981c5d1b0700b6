package mocks

import (
	"context"
	"sync"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/gollm/llm"
	"github.com/teilomillet/gollm/utils"
)

// MockLLM is a gollm.LLM bound to one provider and model. Generation goes
// through GenerateFunc and SetOption calls are recorded for inspection.
type MockLLM struct {
	GenerateFunc func(context.Context, *gollm.Prompt) (string, error)
	Provider     string
	Model        string

	mu      sync.Mutex
	options map[string]interface{}
}

// NewMockLLMWithConfig returns a MockLLM reporting the given provider and model.
func NewMockLLMWithConfig(provider, model string, generateFunc func(context.Context, *gollm.Prompt) (string, error)) *MockLLM {
	return &MockLLM{
		GenerateFunc: generateFunc,
		Provider:     provider,
		Model:        model,
	}
}

func (m *MockLLM) generate(ctx context.Context, prompt *gollm.Prompt) (string, error) {
	if m.GenerateFunc == nil {
		return "", nil
	}
	return m.GenerateFunc(ctx, prompt)
}

func (m *MockLLM) Generate(ctx context.Context, prompt *gollm.Prompt, _ ...llm.GenerateOption) (string, error) {
	return m.generate(ctx, prompt)
}

func (m *MockLLM) GenerateWithSchema(ctx context.Context, prompt *gollm.Prompt, _ interface{}, _ ...llm.GenerateOption) (string, error) {
	return m.generate(ctx, prompt)
}

// SetOption records value under key.
func (m *MockLLM) SetOption(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.options == nil {
		m.options = make(map[string]interface{})
	}
	m.options[key] = value
}

// Option returns a value recorded by SetOption.
func (m *MockLLM) Option(key string) (interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.options[key]
	return v, ok
}

func (m *MockLLM) GetProvider() string { return m.Provider }
func (m *MockLLM) GetModel() string    { return m.Model }

func (m *MockLLM) NewPrompt(text string) *gollm.Prompt {
	return &gollm.Prompt{Messages: []gollm.PromptMessage{{Role: "user", Content: text}}}
}

func (m *MockLLM) GetPromptJSONSchema(...gollm.SchemaOption) ([]byte, error) {
	return []byte(`{}`), nil
}
func (m *MockLLM) SupportsJSONSchema() bool { return true }

// Remaining gollm.LLM methods are inert.
func (m *MockLLM) Debug(string, ...interface{})          {}
func (m *MockLLM) GetLogLevel() gollm.LogLevel           { return gollm.LogLevelInfo }
func (m *MockLLM) UpdateLogLevel(gollm.LogLevel)         {}
func (m *MockLLM) SetLogLevel(gollm.LogLevel)            {}
func (m *MockLLM) GetLogger() utils.Logger               { return nil }
func (m *MockLLM) SetEndpoint(string)                    {}
func (m *MockLLM) SetOllamaEndpoint(string) error        { return nil }
func (m *MockLLM) SetSystemPrompt(string, llm.CacheType) {}
