// Package chromem adapts chromem-go, an embedded pure-Go vector database,
// to the memory.VectorStore contract. It is the default backend: no
// external service, optional persistence to gob files.
package chromem

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/greymalkin-ai/greymalkin/memory"
)

// allPointsProbe is the query text used to enumerate a collection. chromem
// has no list API, but a query with k equal to the document count scores
// and returns every point, which is exactly the snapshot GetAllPoints needs.
const allPointsProbe = "*"

// Config holds chromem store configuration.
type Config struct {
	// Path is the directory for persistent storage. Empty keeps the
	// database purely in memory.
	Path string

	// Compress enables gzip compression for persisted data.
	Compress bool
}

// Store implements memory.VectorStore over chromem-go.
type Store struct {
	db       *chromem.DB
	embedder memory.Embedder
}

// New creates a chromem-backed store. The embedder is used both for inserts
// and for query/scan embeddings.
func New(cfg Config, embedder memory.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	var db *chromem.DB
	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("open chromem db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	return &Store{db: db, embedder: embedder}, nil
}

// embeddingFunc bridges our Embedder interface to chromem's callback.
// Always passed explicitly: chromem falls back to its OpenAI default when
// given nil for persisted collections.
func (s *Store) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.Embed(ctx, text)
	}
}

// EnsureCollection creates the collection if missing. Idempotent.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	if _, err := s.db.GetOrCreateCollection(name, nil, s.embeddingFunc()); err != nil {
		return fmt.Errorf("%w: ensure collection %s: %v", memory.ErrStoreWrite, name, err)
	}
	return nil
}

// GetAllPoints returns every point in the collection.
func (s *Store) GetAllPoints(ctx context.Context, collection string) ([]memory.Point, error) {
	col := s.db.GetCollection(collection, s.embeddingFunc())
	if col == nil {
		return nil, fmt.Errorf("%w: collection %s not found", memory.ErrStoreRead, collection)
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}

	results, err := col.Query(ctx, allPointsProbe, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: scan collection %s: %v", memory.ErrStoreRead, collection, err)
	}

	points := make([]memory.Point, len(results))
	for i, r := range results {
		points[i] = memory.Point{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: fromStringMetadata(r.Metadata),
		}
	}
	return points, nil
}

// AddTexts embeds each text and stores one document per text. IDs are fresh
// UUIDs, returned in input order.
func (s *Store) AddTexts(ctx context.Context, collection string, texts []string, metadatas []map[string]interface{}) ([]string, error) {
	if len(texts) != len(metadatas) {
		return nil, fmt.Errorf("%w: %d texts but %d metadatas", memory.ErrStoreWrite, len(texts), len(metadatas))
	}

	col, err := s.db.GetOrCreateCollection(collection, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("%w: get collection %s: %v", memory.ErrStoreWrite, collection, err)
	}

	ids := make([]string, len(texts))
	for i, text := range texts {
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", memory.ErrEmbedding, err)
		}

		doc := chromem.Document{
			ID:        uuid.New().String(),
			Content:   text,
			Metadata:  toStringMetadata(metadatas[i]),
			Embedding: vec,
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("%w: add document: %v", memory.ErrStoreWrite, err)
		}
		ids[i] = doc.ID
	}
	return ids, nil
}

// DeletePoints removes the listed points from the collection.
func (s *Store) DeletePoints(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	col := s.db.GetCollection(collection, s.embeddingFunc())
	if col == nil {
		return fmt.Errorf("%w: collection %s not found", memory.ErrStoreWrite, collection)
	}

	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("%w: delete %d points: %v", memory.ErrStoreWrite, len(ids), err)
	}
	return nil
}

// Query retrieves up to k points by similarity to the query text.
func (s *Store) Query(ctx context.Context, collection string, text string, k int) ([]memory.QueryResult, error) {
	col := s.db.GetCollection(collection, s.embeddingFunc())
	if col == nil {
		return nil, fmt.Errorf("%w: collection %s not found", memory.ErrStoreRead, collection)
	}

	// chromem requires nResults <= document count.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query collection %s: %v", memory.ErrStoreRead, collection, err)
	}

	out := make([]memory.QueryResult, len(results))
	for i, r := range results {
		out[i] = memory.QueryResult{
			Point: memory.Point{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: fromStringMetadata(r.Metadata),
			},
			Score: r.Similarity,
		}
	}
	return out, nil
}

// Close is a no-op: chromem persists as it writes.
func (s *Store) Close() error {
	return nil
}

// toStringMetadata converts metadata to chromem's string-only format.
func toStringMetadata(metadata map[string]interface{}) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// fromStringMetadata widens chromem's string metadata back to the generic form.
func fromStringMetadata(metadata map[string]string) map[string]interface{} {
	if metadata == nil {
		return nil
	}
	out := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}

var _ memory.VectorStore = (*Store)(nil)
