package memory

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/greymalkin-ai/greymalkin/core"
)

// ProceduralMemory keeps the procedural collection in sync with the set of
// tools currently exposed by the plugin registry.
//
// The matching key between the registry and the store is the tool's
// description text: a point whose content equals an active tool's
// description is that tool's embedding. Sync computes the minimal diff and
// applies it as ordered per-tool inserts followed by one batched delete.
type ProceduralMemory struct {
	store      VectorStore
	collection string
	now        func() time.Time

	// mu serializes reconciliation passes. Two overlapping passes could
	// double-embed a tool between the snapshot read and the insert step,
	// or delete a point a concurrent insert just created.
	mu sync.Mutex
}

// NewProceduralMemory creates a reconciler over the standard procedural
// collection.
func NewProceduralMemory(store VectorStore) *ProceduralMemory {
	return &ProceduralMemory{
		store:      store,
		collection: ProceduralCollection,
		now:        time.Now,
	}
}

// Sync reconciles the procedural collection with the given registry
// snapshot. It is idempotent: re-running with an unchanged snapshot issues
// zero inserts and zero deletes.
//
// Failure semantics:
//   - Snapshot fetch failure aborts the pass (no safe diff without a
//     baseline) and is returned to the caller.
//   - A failed insert for one tool is logged and skipped; the remaining
//     tools are still processed and the delete step still runs. The tool is
//     retried on the next pass.
//   - A failed delete batch is logged; stale points survive until the next
//     successful pass.
func (p *ProceduralMemory) Sync(ctx context.Context, tools []core.ToolDescriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	points, err := p.store.GetAllPoints(ctx, p.collection)
	if err != nil {
		return fmt.Errorf("fetch %s snapshot: %w", p.collection, err)
	}

	embedded := make(map[string]bool, len(points))
	for _, pt := range points {
		embedded[pt.Content] = true
	}

	// Insert step: one tool at a time, in registry order, so a failure on
	// one tool does not block the others. Marking the description as
	// embedded also collapses duplicate-description registrations into a
	// single point.
	for _, tool := range tools {
		if embedded[tool.Description] {
			continue
		}
		meta := map[string]interface{}{
			"source":    "tool",
			"when":      p.now().UTC().Format(time.RFC3339),
			"name":      tool.Name,
			"docstring": tool.Docstring,
		}
		if _, err := p.store.AddTexts(ctx, p.collection, []string{tool.Description}, []map[string]interface{}{meta}); err != nil {
			log.Printf("[PROCEDURAL] Failed to embed tool %q: %v", tool.Name, err)
			continue
		}
		embedded[tool.Description] = true
		log.Printf("[PROCEDURAL] Newly embedded tool: %s", tool.Description)
	}

	// Delete step runs strictly after all inserts: a tool being reloaded
	// may momentarily have both its old and new embedding, but never
	// neither.
	active := make(map[string]bool, len(tools))
	for _, tool := range tools {
		active[tool.Description] = true
	}

	var stale []string
	for _, pt := range points {
		if !active[pt.Content] {
			log.Printf("[PROCEDURAL] Deleting embedded tool: %s", pt.Content)
			stale = append(stale, pt.ID)
		}
	}
	if len(stale) > 0 {
		if err := p.store.DeletePoints(ctx, p.collection, stale); err != nil {
			// Stale points are harmless until the next pass cleans them up.
			log.Printf("[PROCEDURAL] Failed to delete %d stale tool embeddings: %v", len(stale), err)
		}
	}

	return nil
}
