package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/greymalkin-ai/greymalkin/config"
	"github.com/greymalkin-ai/greymalkin/core"
	"github.com/greymalkin-ai/greymalkin/memory"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.LLM.APIKey = "test-key"
	return cfg
}

func newTestRuntime(t *testing.T, cfg config.Config) *Runtime {
	t.Helper()
	rt, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	return rt
}

// proceduralContents reads the procedural collection as a set of embedded
// descriptions.
func proceduralContents(t *testing.T, rt *Runtime) map[string]bool {
	t.Helper()
	points, err := rt.Store.GetAllPoints(context.Background(), memory.ProceduralCollection)
	if err != nil {
		t.Fatalf("read procedural collection: %v", err)
	}
	out := make(map[string]bool, len(points))
	for _, p := range points {
		out[p.Content] = true
	}
	return out
}

func TestStartupEmbedsBuiltinTools(t *testing.T) {
	rt := newTestRuntime(t, testConfig())

	tools := rt.Tools()
	if len(tools) == 0 {
		t.Fatal("no tools registered at startup")
	}

	embedded := proceduralContents(t, rt)
	for _, tool := range tools {
		if !embedded[tool.Description] {
			t.Fatalf("tool %s not embedded at startup", tool.Name)
		}
	}
	if len(embedded) != len(tools) {
		t.Fatalf("%d embeddings for %d tools", len(embedded), len(tools))
	}
}

func TestRegisterTriggersSync(t *testing.T) {
	rt := newTestRuntime(t, testConfig())

	desc := "get_weather(city): Useful to get the current weather."
	rt.Registry.Register("weather", core.ToolDescriptor{
		Name:        "get_weather",
		Description: desc,
	})

	if !proceduralContents(t, rt)[desc] {
		t.Fatal("registered tool not embedded")
	}

	rt.Registry.Unregister("weather")
	if proceduralContents(t, rt)[desc] {
		t.Fatal("unregistered tool still embedded")
	}
}

func TestPluginDirLoadedBeforeFirstSync(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
		"name": "calc",
		"tools": [{"name": "add", "description": "add(a, b): adds two numbers"}]
	}`
	if err := os.WriteFile(filepath.Join(dir, "calc.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg := testConfig()
	cfg.Plugins.Dir = dir
	rt := newTestRuntime(t, cfg)

	if !proceduralContents(t, rt)["add(a, b): adds two numbers"] {
		t.Fatal("manifest tool not embedded at startup")
	}
}

func TestSyncedStateSurvivesRestart(t *testing.T) {
	dataDir := t.TempDir()
	cfg := testConfig()
	cfg.Store.Path = dataDir

	rt1, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	first := proceduralContents(t, rt1)
	rt1.Close()

	rt2 := newTestRuntime(t, cfg)
	second := proceduralContents(t, rt2)

	if len(first) != len(second) {
		t.Fatalf("restart changed embeddings: %d vs %d", len(first), len(second))
	}
	for desc := range first {
		if !second[desc] {
			t.Fatalf("embedding lost across restart: %s", desc)
		}
	}
}

func TestUnknownBackendFails(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "pinecone"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
