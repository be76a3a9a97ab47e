// Package plugin manages the dynamic tool registry: manifest loading,
// builtin tools, directory watching, and change notification.
package plugin

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/greymalkin-ai/greymalkin/core"
)

// Registry holds the tools exposed by loaded plugins. Registration order is
// preserved: Tools returns descriptors grouped by plugin in the order the
// plugins were first registered, each plugin's tools in manifest order.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	plugins   map[string][]core.ToolDescriptor
	callbacks []func()

	// manifestLoaded tracks which plugins came from LoadDir, so a reload
	// can prune manifests deleted from disk without touching plugins
	// registered programmatically.
	manifestLoaded map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins:        make(map[string][]core.ToolDescriptor),
		manifestLoaded: make(map[string]bool),
	}
}

// Tools returns a snapshot of every registered tool descriptor.
func (r *Registry) Tools() []core.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []core.ToolDescriptor
	for _, name := range r.order {
		out = append(out, r.plugins[name]...)
	}
	return out
}

// Plugins returns the names of registered plugins in registration order.
func (r *Registry) Plugins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// OnChange registers fn to run after every registry mutation. Callbacks run
// synchronously, outside the registry lock, in registration order.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	r.callbacks = append(r.callbacks, fn)
	r.mu.Unlock()
}

// Register installs or replaces a plugin's tool set and notifies listeners.
func (r *Registry) Register(plugin string, tools ...core.ToolDescriptor) {
	r.mu.Lock()
	if _, exists := r.plugins[plugin]; !exists {
		r.order = append(r.order, plugin)
	}
	r.plugins[plugin] = append([]core.ToolDescriptor(nil), tools...)
	r.mu.Unlock()

	r.notify()
}

// Unregister removes a plugin and its tools, then notifies listeners. A
// missing plugin is a no-op without notification.
func (r *Registry) Unregister(plugin string) {
	r.mu.Lock()
	if _, exists := r.plugins[plugin]; !exists {
		r.mu.Unlock()
		return
	}
	delete(r.plugins, plugin)
	for i, name := range r.order {
		if name == plugin {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify()
}

// LoadDir loads every *.json manifest in dir, replacing manifest-backed
// plugins that are no longer present. Listeners are notified once for the
// whole pass. Manifests that fail to parse are logged and skipped.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read plugin directory %s: %w", dir, err)
	}

	loaded := make(map[string][]core.ToolDescriptor)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		m, err := LoadManifest(path)
		if err != nil {
			log.Printf("[PLUGIN] Skipping manifest %s: %v", path, err)
			continue
		}
		if _, dup := loaded[m.Name]; dup {
			log.Printf("[PLUGIN] Skipping manifest %s: duplicate plugin %q", path, m.Name)
			continue
		}
		loaded[m.Name] = m.Tools
		names = append(names, m.Name)
	}
	sort.Strings(names)

	r.mu.Lock()
	// Prune manifest-backed plugins that disappeared from the directory.
	for name := range r.manifestLoaded {
		if _, still := loaded[name]; !still {
			delete(r.plugins, name)
			for i, n := range r.order {
				if n == name {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		}
	}
	r.manifestLoaded = make(map[string]bool, len(loaded))
	for _, name := range names {
		if _, exists := r.plugins[name]; !exists {
			r.order = append(r.order, name)
		}
		r.plugins[name] = loaded[name]
		r.manifestLoaded[name] = true
	}
	r.mu.Unlock()

	r.notify()
	return nil
}

// notify invokes change callbacks without holding the lock, so a callback
// may read the registry.
func (r *Registry) notify() {
	r.mu.RLock()
	cbs := append(([]func())(nil), r.callbacks...)
	r.mu.RUnlock()

	for _, fn := range cbs {
		fn()
	}
}
