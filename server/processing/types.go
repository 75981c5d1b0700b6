// Package processing runs the content pipeline: mode resolution, prompt
// rendering, the model fallback and response normalization.
package processing

import (
	"context"
	"fmt"

	"github.com/teilomillet/tavita/server/prompt"
	"github.com/teilomillet/tavita/server/provider"
)

// Response is the outcome of a successful pipeline run.
type Response struct {
	Mode   prompt.Mode `json:"mode"`
	Answer string      `json:"answer"`
	// Model that produced the answer. Logged, never returned to callers.
	Model string `json:"-"`
}

// Completion is the fallback step of the pipeline.
type Completion interface {
	Complete(ctx context.Context, req provider.Request) (*provider.Result, error)
}

// TokenCounter estimates the number of tokens a text occupies in the
// model's context window.
type TokenCounter interface {
	Count(text string) int
}

// BudgetError reports a prompt that cannot fit the configured context
// window together with the mode's completion budget.
type BudgetError struct {
	PromptTokens int
	MaxTokens    int
	Limit        int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("prompt needs %d tokens plus %d for the answer, limit is %d",
		e.PromptTokens, e.MaxTokens, e.Limit)
}
