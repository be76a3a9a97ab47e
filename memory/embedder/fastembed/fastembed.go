// Package fastembed embeds text locally with ONNX models via fastembed-go.
// No API key needed; the model is downloaded to a cache directory on first
// use.
package fastembed

import (
	"context"
	"fmt"

	fe "github.com/anush008/fastembed-go"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "all-minilm-l6-v2"

// models maps config names to fastembed model identifiers.
var models = map[string]fe.EmbeddingModel{
	"all-minilm-l6-v2": fe.AllMiniLML6V2,
	"bge-small-en":     fe.BGESmallEN,
	"bge-small-en-v15": fe.BGESmallENV15,
	"bge-base-en":      fe.BGEBaseEN,
	"bge-base-en-v15":  fe.BGEBaseENV15,
}

// modelDimensions maps config names to vector sizes.
var modelDimensions = map[string]int{
	"all-minilm-l6-v2": 384,
	"bge-small-en":     384,
	"bge-small-en-v15": 384,
	"bge-base-en":      768,
	"bge-base-en-v15":  768,
}

// Config holds local embedder configuration.
type Config struct {
	// Model is the config name of the ONNX model. Defaults to DefaultModel.
	Model string

	// CacheDir is where downloaded models are stored. Empty uses the
	// fastembed default.
	CacheDir string
}

// Embedder runs a local ONNX embedding model.
type Embedder struct {
	model *fe.FlagEmbedding
	dims  int
}

// New initializes the local model, downloading it on first use.
func New(cfg Config) (*Embedder, error) {
	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}

	feModel, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("unknown fastembed model %q", name)
	}

	noProgress := false
	model, err := fe.NewFlagEmbedding(&fe.InitOptions{
		Model:                feModel,
		CacheDir:             cfg.CacheDir,
		ShowDownloadProgress: &noProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("init fastembed model %s: %w", name, err)
	}

	return &Embedder{model: model, dims: modelDimensions[name]}, nil
}

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vecs, err := e.model.Embed([]string{text}, 1)
	if err != nil {
		return nil, fmt.Errorf("fastembed: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("fastembed: empty result")
	}
	return vecs[0], nil
}

// Dimensions returns the model's vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}
