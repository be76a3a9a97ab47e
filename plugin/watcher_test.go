package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcherReloadsOnNewManifest(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()

	w, err := NewWatcher(dir, r)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	writeManifest(t, dir, "weather.json", `{
		"name": "weather",
		"tools": [{"name": "get_weather", "description": "weather tool"}]
	}`)

	ok := waitFor(t, 5*time.Second, func() bool {
		return len(r.Tools()) == 1
	})
	if !ok {
		t.Fatal("watcher did not load the new manifest")
	}
}

func TestWatcherReloadsOnRemove(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "weather.json", `{
		"name": "weather",
		"tools": [{"name": "get_weather", "description": "weather tool"}]
	}`)

	r := NewRegistry()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("load dir: %v", err)
	}

	w, err := NewWatcher(dir, r)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	if err := os.Remove(filepath.Join(dir, "weather.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	ok := waitFor(t, 5*time.Second, func() bool {
		return len(r.Tools()) == 0
	})
	if !ok {
		t.Fatal("watcher did not prune the removed manifest")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, NewRegistry())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
