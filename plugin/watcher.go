package plugin

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of filesystem events (editors often write a
// file several times in quick succession) into one reload.
const debounceDelay = 200 * time.Millisecond

// Watcher reloads the plugin directory into a Registry whenever its manifest
// files change.
type Watcher struct {
	dir      string
	registry *Registry
	fsw      *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher creates a watcher over dir feeding registry. Call Start to
// begin watching.
func NewWatcher(dir string, registry *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		registry: registry,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the watch loop until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceDelay)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.registry.LoadDir(w.dir); err != nil {
				log.Printf("[PLUGIN] Reload of %s failed: %v", w.dir, err)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[PLUGIN] Watcher error: %v", err)
		}
	}
}

// Close stops the watcher and releases filesystem resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
	})
	return err
}
