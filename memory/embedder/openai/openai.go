// Package openai embeds text through the OpenAI embeddings API.
package openai

import (
	"context"
	"fmt"
	"os"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "text-embedding-3-small"

// modelDimensions maps known embedding models to their vector sizes.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds OpenAI embedder configuration.
type Config struct {
	// APIKey authenticates with the API. Falls back to the OPENAI_API_KEY
	// environment variable.
	APIKey string

	// Model is the embedding model name. Defaults to DefaultModel.
	Model string

	// Dimensions overrides the vector size for models not in the known
	// table.
	Dimensions int
}

// Embedder calls the OpenAI embeddings endpoint.
type Embedder struct {
	client *goopenai.Client
	model  string
	dims   int
}

// New creates an OpenAI embedder from cfg.
func New(cfg Config) (*Embedder, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key not set (config or OPENAI_API_KEY)")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	dims := cfg.Dimensions
	if dims == 0 {
		dims = modelDimensions[model]
	}
	if dims == 0 {
		return nil, fmt.Errorf("unknown embedding model %q: set dimensions explicitly", model)
	}

	return &Embedder{
		client: goopenai.NewClient(apiKey),
		model:  model,
		dims:   dims,
	}, nil
}

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(e.model),
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: empty response")
	}
	return resp.Data[0].Embedding, nil
}

// Dimensions returns the model's vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}
