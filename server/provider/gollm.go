package provider

import (
	"context"
	"fmt"

	"github.com/teilomillet/gollm"
)

// LLMFactory builds a gollm client bound to one model.
type LLMFactory func(provider, model, apiKey string) (gollm.LLM, error)

// NewLLM is the production LLMFactory. gollm's own retries are disabled so
// the model list stays the only retry mechanism.
func NewLLM(provider, model, apiKey string) (gollm.LLM, error) {
	return gollm.NewLLM(
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetAPIKey(apiKey),
		gollm.SetMaxRetries(0),
	)
}

// GollmCompleter routes completions through gollm, which knows the wire
// format of every provider it supports. A client is built per attempt since
// gollm binds the model at construction.
type GollmCompleter struct {
	provider string
	apiKey   string
	factory  LLMFactory
}

// NewGollmCompleter returns a completer for the named gollm provider. A nil
// factory uses NewLLM.
func NewGollmCompleter(provider, apiKey string, factory LLMFactory) *GollmCompleter {
	if factory == nil {
		factory = NewLLM
	}
	return &GollmCompleter{
		provider: provider,
		apiKey:   apiKey,
		factory:  factory,
	}
}

// Complete implements Completer.
func (g *GollmCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	llm, err := g.factory(g.provider, req.Model, g.apiKey)
	if err != nil {
		return "", fmt.Errorf("initialize %s/%s: %w", g.provider, req.Model, err)
	}
	llm.SetOption("temperature", req.Temperature)
	if req.MaxTokens > 0 {
		llm.SetOption("max_tokens", req.MaxTokens)
	}

	prompt := &gollm.Prompt{
		Messages: []gollm.PromptMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	return llm.Generate(ctx, prompt)
}
