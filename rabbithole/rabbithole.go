// Package rabbithole ingests documents into declarative memory. Text is
// split into overlapping chunks, each embedded and stored with provenance
// metadata.
package rabbithole

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/greymalkin-ai/greymalkin/memory"
)

// Default chunking parameters, in words.
const (
	DefaultChunkSize    = 256
	DefaultChunkOverlap = 64
)

// RabbitHole ingests documents into long-term declarative memory.
type RabbitHole struct {
	memory  *memory.LongTermMemory
	size    int
	overlap int
	now     func() time.Time
}

// Option configures a RabbitHole.
type Option func(*RabbitHole)

// WithChunking overrides the chunk size and overlap, both in words.
func WithChunking(size, overlap int) Option {
	return func(r *RabbitHole) {
		r.size = size
		r.overlap = overlap
	}
}

// New creates a RabbitHole over ltm.
func New(ltm *memory.LongTermMemory, opts ...Option) *RabbitHole {
	r := &RabbitHole{
		memory:  ltm,
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.overlap >= r.size {
		r.overlap = r.size / 4
	}
	return r
}

// IngestText chunks text and stores every chunk in declarative memory,
// tagged with source. Returns the number of chunks stored.
func (r *RabbitHole) IngestText(ctx context.Context, source string, text string) (int, error) {
	chunks := chunk(text, r.size, r.overlap)
	if len(chunks) == 0 {
		return 0, nil
	}

	when := r.now().UTC().Format(time.RFC3339)
	for i, c := range chunks {
		meta := map[string]interface{}{
			"source": source,
			"when":   when,
			"chunk":  fmt.Sprintf("%d", i),
		}
		if _, err := r.memory.Store(ctx, memory.DeclarativeCollection, c, meta); err != nil {
			return i, fmt.Errorf("store chunk %d of %s: %w", i, source, err)
		}
	}

	log.Printf("[RABBITHOLE] Ingested %s: %d chunks", source, len(chunks))
	return len(chunks), nil
}

// chunk splits text into word windows of the given size with the given
// overlap between consecutive windows.
func chunk(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
