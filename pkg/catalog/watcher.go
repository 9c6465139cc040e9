package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// DefaultDebounce coalesces bursts of filesystem events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// catalogFile is the on-disk shape of a watched catalog document.
type catalogFile struct {
	Models       []Descriptor   `yaml:"models"`
	QualityRanks map[string]int `yaml:"quality_ranks"`
}

// Watcher reloads a catalog file whenever it changes on disk. Editors replace
// files with rename+create sequences, so the watch is on the parent directory
// and events are filtered to the catalog file itself.
type Watcher struct {
	catalog  *Catalog
	path     string
	debounce time.Duration
	logger   *slog.Logger

	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher builds a watcher for the file at path that applies reloads into
// the given catalog.
func NewWatcher(cat *Catalog, path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating catalog watcher: %w", err)
	}
	return &Watcher{
		catalog:  cat,
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the watch is established; reloads
// happen on a background goroutine until Stop or ctx cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx)
	w.logger.Info("catalog watcher started", "path", w.path, "debounce", w.debounce)
	return nil
}

// Stop terminates the watch and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.Reload(); err != nil {
			w.logger.Error("catalog reload failed, keeping previous catalog", "path", w.path, "error", err)
		}
	})
}

// Reload reads the catalog file and atomically swaps it in. A file that fails
// to parse or validate leaves the current catalog untouched.
func (w *Watcher) Reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing catalog file: %w", err)
	}
	if err := w.catalog.Replace(doc.Models, doc.QualityRanks); err != nil {
		return fmt.Errorf("applying catalog file: %w", err)
	}
	w.logger.Info("catalog reloaded", "path", w.path, "models", w.catalog.Len())
	return nil
}
