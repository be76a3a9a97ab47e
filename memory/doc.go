// Package memory provides the agent's long-term vector memory.
//
// Memory is organized into three collections, mirroring how the agent
// uses it:
//   - episodic: past conversation exchanges
//   - declarative: documents ingested through the rabbit hole
//   - procedural: one embedding per currently active tool
//
// Architecture:
//   - VectorStore: storage backend (chromem-go embedded, Qdrant for production)
//   - Embedder: text-to-vector conversion (fastembed locally, OpenAI API, mock)
//   - LongTermMemory: collection lifecycle plus recall/store operations
//   - ProceduralMemory: keeps the procedural collection reconciled with the
//     plugin registry's active toolset
//
// The procedural reconciler is the interesting part: every time the plugin
// registry finishes a (re)load cycle it re-runs a diff-and-apply pass so the
// stored tool embeddings exactly match the active tools. Passes are
// idempotent and serialized, so a failed pass simply heals on the next one.
package memory
