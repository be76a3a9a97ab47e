package rabbithole

import (
	"context"
	"strings"
	"testing"

	"github.com/greymalkin-ai/greymalkin/memory"
	"github.com/greymalkin-ai/greymalkin/memory/embedder/mock"
	chromemstore "github.com/greymalkin-ai/greymalkin/memory/store/chromem"
)

func newTestMemory(t *testing.T) *memory.LongTermMemory {
	t.Helper()
	store, err := chromemstore.New(chromemstore.Config{}, mock.New(32))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ltm, err := memory.NewLongTermMemory(context.Background(), store)
	if err != nil {
		t.Fatalf("new memory: %v", err)
	}
	return ltm
}

func TestIngestTextShortDocument(t *testing.T) {
	ltm := newTestMemory(t)
	rh := New(ltm)

	n, err := rh.IngestText(context.Background(), "note.txt", "a short note about tea")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if n != 1 {
		t.Fatalf("chunks = %d, want 1", n)
	}

	results, err := ltm.Recall(context.Background(), memory.DeclarativeCollection, "tea", 1)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Metadata["source"] != "note.txt" {
		t.Fatalf("source metadata = %v", results[0].Metadata["source"])
	}
}

func TestIngestTextEmpty(t *testing.T) {
	rh := New(newTestMemory(t))
	n, err := rh.IngestText(context.Background(), "empty.txt", "   \n\t  ")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if n != 0 {
		t.Fatalf("chunks = %d, want 0", n)
	}
}

func TestIngestTextChunksLongDocument(t *testing.T) {
	rh := New(newTestMemory(t), WithChunking(10, 2))

	words := make([]string, 25)
	for i := range words {
		words[i] = "word"
	}
	n, err := rh.IngestText(context.Background(), "long.txt", strings.Join(words, " "))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	// Windows of 10 words stepping by 8: 0-10, 8-18, 16-25.
	if n != 3 {
		t.Fatalf("chunks = %d, want 3", n)
	}
}

func TestChunkCoversAllWords(t *testing.T) {
	chunks := chunk("one two three four five six seven", 3, 1)
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	joined := strings.Join(chunks, " ")
	for _, w := range []string{"one", "four", "seven"} {
		if !strings.Contains(joined, w) {
			t.Fatalf("word %q missing from chunks %v", w, chunks)
		}
	}
	if last := chunks[len(chunks)-1]; !strings.HasSuffix(last, "seven") {
		t.Fatalf("last chunk should end the document: %q", last)
	}
}
