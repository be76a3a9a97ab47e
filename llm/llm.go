// Package llm selects and wraps chat completion providers behind a single
// small interface.
package llm

import (
	"context"
	"fmt"
)

// Model is a chat completion backend.
type Model interface {
	// Complete sends prompt with an optional system instruction and returns
	// the model's text reply.
	Complete(ctx context.Context, system string, prompt string) (string, error)

	// Name identifies the provider and model, e.g. "anthropic:claude-sonnet-4-20250514".
	Name() string
}

// Config selects and configures an LLM provider.
type Config struct {
	// Provider is one of "anthropic" or "openai".
	Provider string

	// Model is the provider-specific model name.
	Model string

	// APIKey authenticates with the provider. Falls back to the provider's
	// usual environment variable.
	APIKey string

	// MaxTokens caps the completion length.
	MaxTokens int64
}

// constructors is the closed set of known providers. Unknown names are an
// error, never a silent fallback.
var constructors = map[string]func(Config) (Model, error){
	"anthropic": newAnthropic,
	"openai":    newOpenAI,
}

// New builds the model named by cfg.Provider.
func New(cfg Config) (Model, error) {
	build, ok := constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return build(cfg)
}
