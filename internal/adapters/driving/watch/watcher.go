// Package watch monitors a drop directory and ingests documents that
// land in it. Files are picked up on create and write, removed files
// are evicted from the store and index.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/contexture-ai/contexture/internal/core/ports/driving"
	"github.com/contexture-ai/contexture/internal/logger"
	"github.com/contexture-ai/contexture/internal/normalisers"
)

// DefaultDebounce is how long a file must stay quiet before ingestion.
// Editors and downloads write in bursts; ingesting on the first event
// would read half a file.
const DefaultDebounce = 500 * time.Millisecond

// Config holds watcher configuration.
type Config struct {
	// Dir is the directory to watch (required).
	Dir string

	// Extensions limits which files are picked up (default: .txt, .md).
	Extensions []string

	// Debounce is the quiet period before a changed file is ingested.
	Debounce time.Duration
}

// Watcher ingests documents dropped into a directory.
type Watcher struct {
	ingester   driving.IngestOrchestrator
	watcher    *fsnotify.Watcher
	norm       *normalisers.Registry
	dir        string
	extensions []string
	debounce   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over cfg.Dir feeding the given orchestrator.
func New(ingester driving.IngestOrchestrator, cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("watch: directory is required")
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".txt", ".md"}
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	return &Watcher{
		ingester:   ingester,
		watcher:    fsw,
		norm:       normalisers.New(),
		dir:        cfg.Dir,
		extensions: cfg.Extensions,
		debounce:   cfg.Debounce,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Run watches until the context is cancelled. Blocks.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer w.watcher.Close()

	logger.Info("Watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !w.isWatchedExtension(event.Name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		w.scheduleIngest(ctx, event.Name)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.cancelOne(event.Name)
		fileName := filepath.Base(event.Name)
		if _, err := w.ingester.RemoveFile(ctx, fileName); err != nil {
			logger.Warn("Remove %s: %v", fileName, err)
		}
	}
}

// scheduleIngest (re)arms the per-file debounce timer. Each write
// pushes ingestion back until the file goes quiet.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.ingestFile(ctx, path)
	})
}

func (w *Watcher) ingestFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		// File may have been removed between the event and the timer.
		logger.Warn("Read %s: %v", path, err)
		return
	}

	fileName := filepath.Base(path)
	text, err := w.norm.Normalise(fileName, content)
	if err != nil {
		logger.Warn("Normalise %s: %v", fileName, err)
		return
	}

	// Replace any previous chunks for this file before re-ingesting
	// so edits don't accumulate stale pages.
	if _, err := w.ingester.RemoveFile(ctx, fileName); err != nil {
		logger.Warn("Evict %s: %v", fileName, err)
	}

	n, err := w.ingester.IngestPages(ctx, fileName, text)
	if err != nil {
		logger.Warn("Ingest %s: %v", fileName, err)
		return
	}
	logger.Info("Ingested %s: %d chunks", fileName, n)
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) cancelOne(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) isWatchedExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
