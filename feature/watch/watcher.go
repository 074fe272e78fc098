package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"medialink/core/metrics"
	"medialink/core/reconcile"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Target is an organize entry driven by the watcher. *reconcile.Layer
// implements it.
type Target interface {
	Index() int
	Directories() []string
	TargetPath() string
	OnFileCreated(ctx context.Context, path string) (*reconcile.PassResult, error)
	OnFileDeleted(ctx context.Context, path string) (bool, error)
}

// Event names reported to metrics.
const (
	EventCreate = "create"
	EventRemove = "remove"
)

// Watcher forwards filesystem events under the source directories of its
// targets. Directories are watched recursively; new ones are added as they
// appear.
type Watcher struct {
	cfg      Config
	targets  []Target
	registry *reconcile.Registry
	logger   *zap.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string]struct{}

	kicks []chan string
	wg    sync.WaitGroup
}

// New creates a watcher over targets and registers their source trees.
// Missing source directories are logged and skipped.
func New(cfg Config, targets []Target, registry *reconcile.Registry, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		targets:  targets,
		registry: registry,
		logger:   logger,
		fsw:      fsw,
		watched:  make(map[string]struct{}),
		kicks:    make([]chan string, len(targets)),
	}
	for i := range w.kicks {
		w.kicks[i] = make(chan string, 1)
	}

	for _, t := range targets {
		for _, dir := range t.Directories() {
			if err := w.addTree(dir); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					logger.Warn("Source directory does not exist, not watching", zap.String("path", dir))
					continue
				}
				fsw.Close()
				return nil, err
			}
		}
	}
	return w, nil
}

// Watched returns the number of directories under watch.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

// Run dispatches events until ctx is cancelled, then waits for running
// passes to finish.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	for i, t := range w.targets {
		w.wg.Add(1)
		go w.organizer(ctx, t, w.kicks[i])
	}
	defer w.wg.Wait()

	w.logger.Info("Watching source directories", zap.Int("directories", w.Watched()))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("Failed to watch directory", zap.String("path", path), zap.Error(err))
			}
		}
		for i, t := range w.targets {
			if owns(t, path) {
				metrics.RecordWatchEvent(t.Index(), EventCreate)
				select {
				case w.kicks[i] <- path:
				default:
				}
			}
		}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.forget(path)
		for _, t := range w.targets {
			if owns(t, path) {
				metrics.RecordWatchEvent(t.Index(), EventRemove)
				w.removed(ctx, t, path)
			}
		}
	}
}

// removed forwards a deletion. A path without a record of its own may be a
// directory, so every record of the target below it is removed too. Each
// origin is handed to the target once, whether or not its unlink succeeds.
func (w *Watcher) removed(ctx context.Context, t Target, path string) {
	if _, tracked := w.registry.FindByOrigin(path); tracked {
		if _, err := t.OnFileDeleted(ctx, path); err != nil {
			w.logger.Error("Delete handling failed", zap.String("path", path), zap.Error(err))
		}
		return
	}
	for _, rec := range w.registry.EntrySnapshot(t.Index()) {
		if within(path, rec.Origin) {
			if _, err := t.OnFileDeleted(ctx, rec.Origin); err != nil {
				w.logger.Error("Delete handling failed", zap.String("path", rec.Origin), zap.Error(err))
			}
		}
	}
}

// organizer runs passes for one target. A kick that arrives while a pass
// runs is coalesced into a single follow-up pass.
func (w *Watcher) organizer(ctx context.Context, t Target, kick <-chan string) {
	defer w.wg.Done()
	for {
		var path string
		select {
		case <-ctx.Done():
			return
		case path = <-kick:
		}

		if w.cfg.Debounce > 0 {
			timer := time.NewTimer(w.cfg.Debounce)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			// Drop kicks received during the quiet period.
			select {
			case path = <-kick:
			default:
			}
		}

		if _, err := t.OnFileCreated(ctx, path); err != nil {
			w.logger.Error("Organize pass failed",
				zap.Int("entry", t.Index()),
				zap.Error(err))
		}
	}
}

// addTree watches dir and every directory below it, skipping target paths.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != dir && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.isTarget(path) {
			return filepath.SkipDir
		}

		w.mu.Lock()
		_, seen := w.watched[path]
		w.mu.Unlock()
		if seen {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		w.mu.Lock()
		w.watched[path] = struct{}{}
		w.mu.Unlock()
		return nil
	})
}

// forget drops path and its subdirectories from the watched set. fsnotify
// removes the kernel watch itself once the directory is gone.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir := range w.watched {
		if within(path, dir) {
			delete(w.watched, dir)
		}
	}
}

func (w *Watcher) isTarget(path string) bool {
	for _, t := range w.targets {
		if path == t.TargetPath() {
			return true
		}
	}
	return false
}

// owns reports whether path lies in a source directory of t and outside its
// target path.
func owns(t Target, path string) bool {
	if within(t.TargetPath(), path) {
		return false
	}
	for _, dir := range t.Directories() {
		if within(dir, path) {
			return true
		}
	}
	return false
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}
