// Package watcher watches a configuration tree for changes to .tf files
// and invokes a callback after a debounce window, so a burst of editor
// writes triggers a single rebuild.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/metrics"
)

// Watcher debounces filesystem events on .tf files under a root directory.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	excludes  []glob.Glob
	onChange  func([]string)
	root      string

	pending   map[string]struct{}
	pendingMu sync.Mutex
	timer     *time.Timer
}

// New returns a Watcher that calls onChange with the batch of changed
// paths once debounce has elapsed with no further events. excludes are
// matched against slash-separated paths relative to the watched root,
// the same form the file finder matches them against.
func New(debounce time.Duration, excludes []glob.Glob, onChange func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		excludes:  excludes,
		onChange:  onChange,
		pending:   make(map[string]struct{}),
	}, nil
}

// Watch registers root and its subdirectories and starts the event loop.
// The loop stops when ctx is canceled or the Watcher is closed.
func (w *Watcher) Watch(ctx context.Context, root string) error {
	w.root = filepath.Clean(root)
	if err := w.watchRecursive(root); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Close stops the debounce timer and the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".terraform" {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	log := ctxlog.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op.Has(fsnotify.Create) {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if filepath.Base(event.Name) != ".terraform" {
						if err := w.watchRecursive(event.Name); err != nil {
							log.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if !w.relevant(event.Name) {
				continue
			}

			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
				event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
				metrics.WatcherEventsTotal.Inc()
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(path string) bool {
	if !strings.HasSuffix(filepath.Base(path), ".tf") {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	for _, g := range w.excludes {
		if g.Match(rel) {
			return false
		}
	}
	return true
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		w.onChange(paths)
	}
}
