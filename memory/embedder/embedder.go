// Package embedder selects an embedding provider by name.
package embedder

import (
	"fmt"

	"github.com/greymalkin-ai/greymalkin/memory"
	"github.com/greymalkin-ai/greymalkin/memory/embedder/fastembed"
	"github.com/greymalkin-ai/greymalkin/memory/embedder/mock"
	"github.com/greymalkin-ai/greymalkin/memory/embedder/openai"
)

// Config selects and configures an embedding provider.
type Config struct {
	// Provider is one of "mock", "openai" or "fastembed".
	Provider string

	// Model is the provider-specific model name.
	Model string

	// APIKey authenticates API-backed providers.
	APIKey string

	// CacheDir is where local providers store downloaded models.
	CacheDir string

	// Dimensions overrides the vector size where the provider supports it.
	Dimensions int
}

// constructors is the closed set of known providers. Unknown names are an
// error, never a silent fallback.
var constructors = map[string]func(Config) (memory.Embedder, error){
	"mock": func(cfg Config) (memory.Embedder, error) {
		return mock.New(cfg.Dimensions), nil
	},
	"openai": func(cfg Config) (memory.Embedder, error) {
		return openai.New(openai.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	},
	"fastembed": func(cfg Config) (memory.Embedder, error) {
		return fastembed.New(fastembed.Config{
			Model:    cfg.Model,
			CacheDir: cfg.CacheDir,
		})
	},
}

// New builds the embedder named by cfg.Provider.
func New(cfg Config) (memory.Embedder, error) {
	build, ok := constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown embedder provider %q", cfg.Provider)
	}
	return build(cfg)
}
