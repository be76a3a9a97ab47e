package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LLM.Provider != "anthropic" {
		t.Fatalf("llm provider = %s", cfg.LLM.Provider)
	}
	if cfg.Embedder.Provider != "mock" {
		t.Fatalf("embedder provider = %s", cfg.Embedder.Provider)
	}
	if cfg.Store.Backend != "chromem" {
		t.Fatalf("store backend = %s", cfg.Store.Backend)
	}
	if cfg.Memory.SyncTimeout != 30*time.Second {
		t.Fatalf("sync timeout = %s", cfg.Memory.SyncTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
llm:
  provider: openai
  model: gpt-4o
store:
  backend: qdrant
  qdrant:
    host: vectors.internal
    port: 7001
plugins:
  dir: ./plugins
  watch: true
memory:
  sync_timeout: 10s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("llm = %+v", cfg.LLM)
	}
	if cfg.Store.Backend != "qdrant" || cfg.Store.Qdrant.Host != "vectors.internal" || cfg.Store.Qdrant.Port != 7001 {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if !cfg.Plugins.Watch || cfg.Plugins.Dir != "./plugins" {
		t.Fatalf("plugins = %+v", cfg.Plugins)
	}
	if cfg.Memory.SyncTimeout != 10*time.Second {
		t.Fatalf("sync timeout = %s", cfg.Memory.SyncTimeout)
	}
	// Unset fields keep their defaults.
	if cfg.Embedder.Provider != "mock" {
		t.Fatalf("embedder provider = %s", cfg.Embedder.Provider)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  backend: chromem\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("GREYMALKIN_STORE_BACKEND", "qdrant")
	t.Setenv("GREYMALKIN_LLM_PROVIDER", "openai")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "qdrant" {
		t.Fatalf("env override lost: backend = %s", cfg.Store.Backend)
	}
	if cfg.LLM.Provider != "openai" {
		t.Fatalf("env override lost: provider = %s", cfg.LLM.Provider)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "chromem" {
		t.Fatalf("backend = %s", cfg.Store.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "pinecone"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
