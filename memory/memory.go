package memory

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations. Adapters wrap the underlying
// cause with one of these so callers can classify failures without knowing
// the backend.
var (
	// ErrStoreRead is returned when the store cannot produce a snapshot.
	// A reconciliation pass cannot proceed without a baseline, so this
	// aborts the pass.
	ErrStoreRead = errors.New("vector store read failed")

	// ErrStoreWrite is returned when an insert or delete is rejected by
	// the backend. The collection may be left inconsistent until the next
	// pass heals it.
	ErrStoreWrite = errors.New("vector store write failed")

	// ErrEmbedding is returned when the embedding computation fails for a
	// text. The text simply remains unembedded until the next pass.
	ErrEmbedding = errors.New("embedding computation failed")
)

// Point is a stored vector record: an opaque store-assigned identifier, the
// text that was embedded, and its metadata payload.
type Point struct {
	ID       string
	Content  string
	Metadata map[string]interface{}
}

// QueryResult pairs a point with its similarity score (higher = more similar).
type QueryResult struct {
	Point
	Score float32
}

// VectorStore is the storage backend contract consumed by long-term memory
// and the procedural reconciler.
//
// Implementations: chromem.Store (embedded, local default) and qdrant.Store
// (external gRPC service for production deployments).
type VectorStore interface {
	// EnsureCollection creates the named collection if it does not exist.
	// Idempotent.
	EnsureCollection(ctx context.Context, name string) error

	// GetAllPoints returns a full snapshot of the collection. No ordering
	// guarantee; every point carries its id, content, and metadata.
	GetAllPoints(ctx context.Context, collection string) ([]Point, error)

	// AddTexts embeds each text and persists one new point per text with
	// the matching metadata. The store assigns fresh identifiers and
	// returns them in input order. Points become visible to subsequent
	// GetAllPoints calls before AddTexts returns; there are no
	// fire-and-forget inserts.
	AddTexts(ctx context.Context, collection string, texts []string, metadatas []map[string]interface{}) ([]string, error)

	// DeletePoints removes the listed points in one batch. An empty id
	// set is a no-op. Partial application on failure is store-defined;
	// callers must treat any error as "state unknown, safe to re-run".
	DeletePoints(ctx context.Context, collection string, ids []string) error

	// Query retrieves up to k points by similarity to the query text.
	Query(ctx context.Context, collection string, text string, k int) ([]QueryResult, error)

	// Close releases backend resources.
	Close() error
}

// Embedder converts text to vector embeddings.
// Implementations: mock (testing), fastembed (local ONNX models),
// openai (API-based).
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}
