// Package mock provides a deterministic embedder for tests and offline
// development. Vectors are derived from a hash of the input text, so equal
// texts always embed to equal vectors and different texts almost never
// collide.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// DefaultDimensions matches the output size of common MiniLM-class models.
const DefaultDimensions = 384

// Embedder produces pseudo-random unit vectors seeded by the input text.
type Embedder struct {
	dims int
}

// New returns a mock embedder with the given vector size. Zero or negative
// sizes fall back to DefaultDimensions.
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Embed returns a deterministic unit vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, e.dims)
	var norm float64
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		// Map the top bits to [-1, 1).
		v := float64(int64(seed>>11))/float64(1<<52) - 1
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// Dimensions returns the configured vector size.
func (e *Embedder) Dimensions() int {
	return e.dims
}
