package memory

import (
	"context"
	"fmt"
)

// Standard long-term memory collections.
const (
	// EpisodicCollection holds past conversation exchanges.
	EpisodicCollection = "episodic"

	// DeclarativeCollection holds ingested documents.
	DeclarativeCollection = "declarative"

	// ProceduralCollection holds one embedding per active tool.
	ProceduralCollection = "procedural"
)

// Collections lists every collection long-term memory manages.
func Collections() []string {
	return []string{EpisodicCollection, DeclarativeCollection, ProceduralCollection}
}

// LongTermMemory owns the agent's vector collections and exposes recall and
// store operations over them.
type LongTermMemory struct {
	store VectorStore
}

// NewLongTermMemory ensures all standard collections exist and returns a
// memory handle over them.
func NewLongTermMemory(ctx context.Context, store VectorStore) (*LongTermMemory, error) {
	for _, name := range Collections() {
		if err := store.EnsureCollection(ctx, name); err != nil {
			return nil, fmt.Errorf("ensure collection %s: %w", name, err)
		}
	}
	return &LongTermMemory{store: store}, nil
}

// Store embeds text and persists it into the named collection, returning the
// new point's identifier.
func (m *LongTermMemory) Store(ctx context.Context, collection string, text string, metadata map[string]interface{}) (string, error) {
	ids, err := m.store.AddTexts(ctx, collection, []string{text}, []map[string]interface{}{metadata})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// Recall retrieves up to k points from the named collection by similarity to
// the query text.
func (m *LongTermMemory) Recall(ctx context.Context, collection string, query string, k int) ([]QueryResult, error) {
	return m.store.Query(ctx, collection, query, k)
}

// Vectors exposes the underlying store for callers that need raw point
// access (the procedural reconciler, the rabbit hole).
func (m *LongTermMemory) Vectors() VectorStore {
	return m.store
}
