package embedder

import (
	"strings"
	"testing"
)

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "word2vec"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "word2vec") {
		t.Fatalf("error should name the provider: %v", err)
	}
}

func TestNewMock(t *testing.T) {
	e, err := New(Config{Provider: "mock", Dimensions: 16})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if e.Dimensions() != 16 {
		t.Fatalf("dimensions = %d, want 16", e.Dimensions())
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New(Config{Provider: "openai"}); err == nil {
		t.Fatal("expected error without api key")
	}
}
