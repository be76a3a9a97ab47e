// Package bootstrap assembles the runtime: embedder, vector store, long-term
// memory, LLM, plugin registry and the procedural reconciler, wired so that
// every registry change re-syncs tool embeddings.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/greymalkin-ai/greymalkin/config"
	"github.com/greymalkin-ai/greymalkin/core"
	"github.com/greymalkin-ai/greymalkin/llm"
	"github.com/greymalkin-ai/greymalkin/memory"
	"github.com/greymalkin-ai/greymalkin/memory/embedder"
	chromemstore "github.com/greymalkin-ai/greymalkin/memory/store/chromem"
	qdrantstore "github.com/greymalkin-ai/greymalkin/memory/store/qdrant"
	"github.com/greymalkin-ai/greymalkin/plugin"
	"github.com/greymalkin-ai/greymalkin/rabbithole"
)

// Runtime is the assembled agent runtime.
type Runtime struct {
	cfg config.Config

	LLM        llm.Model
	Embedder   memory.Embedder
	Store      memory.VectorStore
	Memory     *memory.LongTermMemory
	Procedural *memory.ProceduralMemory
	Registry   *plugin.Registry
	RabbitHole *rabbithole.RabbitHole
	Notifier   Notifier

	watcher *plugin.Watcher
}

// New builds a runtime from cfg. Plugins are loaded and the procedural
// collection is synced before New returns, so a started runtime always has
// its active tools embedded.
func New(ctx context.Context, cfg config.Config) (*Runtime, error) {
	emb, err := embedder.New(embedder.Config{
		Provider:   cfg.Embedder.Provider,
		Model:      cfg.Embedder.Model,
		APIKey:     cfg.Embedder.APIKey,
		CacheDir:   cfg.Embedder.CacheDir,
		Dimensions: cfg.Embedder.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	if cfg.Embedder.Cache {
		cached, err := memory.NewCachedEmbedder(emb)
		if err != nil {
			return nil, fmt.Errorf("create embedding cache: %w", err)
		}
		emb = cached
	}

	store, err := newStore(cfg.Store, emb)
	if err != nil {
		return nil, fmt.Errorf("create vector store: %w", err)
	}

	ltm, err := memory.NewLongTermMemory(ctx, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize long-term memory: %w", err)
	}

	model, err := llm.New(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create llm: %w", err)
	}

	rt := &Runtime{
		cfg:        cfg,
		LLM:        model,
		Embedder:   emb,
		Store:      store,
		Memory:     ltm,
		Procedural: memory.NewProceduralMemory(store),
		Registry:   plugin.NewRegistry(),
		RabbitHole: rabbithole.New(ltm),
		Notifier:   noopNotifier{},
	}

	// Load all tool sources first, then attach the sync callback and run one
	// explicit pass. Bootstrapping triggers exactly one reconciliation no
	// matter how many plugins were loaded.
	rt.Registry.Register(plugin.BuiltinPluginName, plugin.BuiltinTools()...)
	if cfg.Plugins.Dir != "" {
		if err := rt.Registry.LoadDir(cfg.Plugins.Dir); err != nil {
			log.Printf("[BOOTSTRAP] Plugin directory load failed: %v", err)
		}
	}

	rt.Registry.OnChange(rt.syncTools)
	rt.syncTools()

	if cfg.Plugins.Dir != "" && cfg.Plugins.Watch {
		w, err := plugin.NewWatcher(cfg.Plugins.Dir, rt.Registry)
		if err != nil {
			log.Printf("[BOOTSTRAP] Plugin watcher unavailable: %v", err)
		} else {
			rt.watcher = w
			w.Start(ctx)
		}
	}

	log.Printf("[BOOTSTRAP] Runtime ready: llm=%s store=%s tools=%d",
		model.Name(), cfg.Store.Backend, len(rt.Registry.Tools()))
	return rt, nil
}

// Tools returns the currently registered tool descriptors.
func (rt *Runtime) Tools() []core.ToolDescriptor {
	return rt.Registry.Tools()
}

// syncTools reconciles the procedural collection with the current registry
// snapshot. Failures are logged, not fatal: the next registry change retries.
func (rt *Runtime) syncTools() {
	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Memory.SyncTimeout)
	defer cancel()

	if err := rt.Procedural.Sync(ctx, rt.Registry.Tools()); err != nil {
		log.Printf("[BOOTSTRAP] Tool sync failed (will retry on next registry change): %v", err)
		rt.Notifier.Notify(fmt.Sprintf("Tool sync failed: %v", err))
	}
}

// Close stops the plugin watcher and closes the vector store.
func (rt *Runtime) Close() error {
	if rt.watcher != nil {
		rt.watcher.Close()
	}
	return rt.Store.Close()
}

// newStore builds the configured vector store backend.
func newStore(cfg config.StoreConfig, emb memory.Embedder) (memory.VectorStore, error) {
	switch cfg.Backend {
	case "chromem":
		return chromemstore.New(chromemstore.Config{
			Path:     cfg.Path,
			Compress: cfg.Compress,
		}, emb)
	case "qdrant":
		return qdrantstore.New(qdrantstore.Config{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
			UseTLS: cfg.Qdrant.UseTLS,
		}, emb)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
