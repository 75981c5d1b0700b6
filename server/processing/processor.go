package processing

import (
	"context"
	"fmt"

	"github.com/teilomillet/tavita/server/prompt"
	"github.com/teilomillet/tavita/server/provider"
	"go.uber.org/zap"
)

// Processor runs one payload through the pipeline. It holds no per-request
// state and is safe for concurrent use.
type Processor struct {
	builder    *prompt.Builder
	completion Completion
	counter    TokenCounter
	maxContext int
	logger     *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithTokenBudget enables the prompt size check. A nil counter or a
// non-positive limit leaves it disabled.
func WithTokenBudget(counter TokenCounter, maxContext int) Option {
	return func(p *Processor) {
		p.counter = counter
		p.maxContext = maxContext
	}
}

// WithLogger sets the logger used for pipeline events.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor creates a processor over a prompt builder and a completion
// step.
func NewProcessor(builder *prompt.Builder, completion Completion, opts ...Option) (*Processor, error) {
	if builder == nil {
		return nil, fmt.Errorf("prompt builder is required")
	}
	if completion == nil {
		return nil, fmt.Errorf("completion is required")
	}

	p := &Processor{
		builder:    builder,
		completion: completion,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process resolves the payload's mode, renders its prompts, obtains a
// completion and normalizes it. Errors are a *BudgetError when the prompt is
// too large, a *provider.FallbackError when no model answered, or a plain
// error for rendering failures.
func (p *Processor) Process(ctx context.Context, payload prompt.Payload) (*Response, error) {
	mode := prompt.Resolve(payload)

	pair, err := p.builder.Build(mode, payload)
	if err != nil {
		return nil, err
	}
	spec := p.builder.Spec(mode)

	if err := p.checkBudget(pair, spec.MaxTokens); err != nil {
		return nil, err
	}

	res, err := p.completion.Complete(ctx, provider.Request{
		System:      pair.System,
		User:        pair.User,
		Temperature: spec.Temperature,
		MaxTokens:   spec.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("completion produced",
		zap.String("mode", string(mode)),
		zap.String("model", res.Model),
		zap.Int("attempts", len(res.Attempts)))

	return &Response{
		Mode:   mode,
		Answer: Normalize(res.Text),
		Model:  res.Model,
	}, nil
}

func (p *Processor) checkBudget(pair prompt.Pair, maxTokens int) error {
	if p.counter == nil || p.maxContext <= 0 {
		return nil
	}
	tokens := p.counter.Count(pair.System) + p.counter.Count(pair.User)
	if tokens+maxTokens > p.maxContext {
		return &BudgetError{PromptTokens: tokens, MaxTokens: maxTokens, Limit: p.maxContext}
	}
	return nil
}
