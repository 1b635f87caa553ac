// Package watch is the one component allowed a background goroutine
// (spec.md §5): it watches the project tree for file changes and feeds
// them to SearchIndex.UpdateIncremental and RepoMapper.AddFile. It never
// touches AttentionState directly.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"attnrouter/internal/logging"
	"attnrouter/internal/repomap"
	"attnrouter/internal/searchindex"

	"github.com/fsnotify/fsnotify"
)

// Indexer is the subset of searchindex.Index that Watcher drives.
type Indexer interface {
	UpdateIncremental(docs []searchindex.Document, now float64) (int, error)
}

// Mapper is the subset of repomap.RepoMapper that Watcher drives.
type Mapper interface {
	AddFile(path, content string) repomap.FileSymbols
}

// Watcher debounces filesystem events under rootDir and reindexes
// changed files into an Indexer and a Mapper.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	rootDir     string
	index       Indexer
	mapper      Mapper
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// New creates a Watcher rooted at rootDir. It does not start watching
// until Start is called.
func New(rootDir string, index Indexer, mapper Mapper) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     fsw,
		rootDir:     rootDir,
		index:       index,
		mapper:      mapper,
		debounceMap: make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start recursively adds rootDir's directories to the watcher and begins
// the event loop in a goroutine. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	err := filepath.WalkDir(w.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			if addErr := w.watcher.Add(path); addErr != nil {
				logging.WatchDebug("failed to watch dir %s: %v", path, addErr)
			}
		}
		return nil
	})
	if err != nil {
		logging.Get(logging.CategoryWatch).Warn("walk failed while starting watcher: %v", err)
	}

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("error closing watcher: %v", err)
	}
	logging.Watch("watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Error("watcher error: %v", err)
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if shouldSkipPath(event.Name) {
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.reindex(path)
	}
}

func (w *Watcher) reindex(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		logging.Get(logging.CategoryWatch).Warn("failed to read %s: %v", path, err)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}

	rel, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		rel = path
	}

	doc := searchindex.Document{
		Path:    rel,
		Content: string(content),
		Mtime:   float64(info.ModTime().UnixNano()) / 1e9,
		DocType: filepath.Ext(rel),
	}

	if w.index != nil {
		if _, err := w.index.UpdateIncremental([]searchindex.Document{doc}, doc.Mtime); err != nil {
			logging.Get(logging.CategoryWatch).Warn("update_incremental failed for %s: %v", rel, err)
		}
	}
	if w.mapper != nil {
		w.mapper.AddFile(rel, string(content))
	}

	logging.WatchDebug("reindexed %s", rel)
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor", ".attn":
		return true
	}
	return strings.HasPrefix(name, ".")
}

func shouldSkipPath(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~")
}
