package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"attnrouter/internal/repomap"
	"attnrouter/internal/searchindex"

	"go.uber.org/goleak"
)

type fakeIndexer struct {
	updates [][]searchindex.Document
}

func (f *fakeIndexer) UpdateIncremental(docs []searchindex.Document, now float64) (int, error) {
	f.updates = append(f.updates, docs)
	return len(docs), nil
}

type fakeMapper struct {
	added []string
}

func (f *fakeMapper) AddFile(path, content string) repomap.FileSymbols {
	f.added = append(f.added, path)
	return repomap.FileSymbols{Path: path}
}

func TestWatcherStartStopNoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t,
		// fsnotify's inotify reader goroutine on Linux exits asynchronously
		// relative to Watcher.Stop returning; it is not a leak from this
		// package's own logic.
		goleak.IgnoreTopFunction("github.com/fsnotify/fsnotify.(*Watcher).readEvents"),
		goleak.IgnoreAnyFunction("internal/poll.runtime_pollWait"),
	)

	dir := t.TempDir()
	idx := &fakeIndexer{}
	mapper := &fakeMapper{}

	w, err := New(dir, idx, mapper)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()
}

func TestReindexCallsIndexerAndMapper(t *testing.T) {
	dir := t.TempDir()
	idx := &fakeIndexer{}
	mapper := &fakeMapper{}

	w, err := New(dir, idx, mapper)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	path := filepath.Join(dir, "example.go")
	if err := os.WriteFile(path, []byte("package example\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	w.reindex(path)

	if len(idx.updates) != 1 {
		t.Errorf("expected 1 indexer update, got %d", len(idx.updates))
	}
	if len(mapper.added) != 1 || mapper.added[0] != "example.go" {
		t.Errorf("expected mapper.AddFile called with example.go, got %v", mapper.added)
	}
}

func TestShouldSkipDirIgnoresDotAndVendorDirs(t *testing.T) {
	for _, name := range []string{".git", "node_modules", "vendor", ".attn", ".hidden"} {
		if !shouldSkipDir(name) {
			t.Errorf("expected shouldSkipDir(%q) to be true", name)
		}
	}
	if shouldSkipDir("internal") {
		t.Errorf("expected shouldSkipDir(\"internal\") to be false")
	}
}

func TestDebounceSettlesBeforeReindex(t *testing.T) {
	dir := t.TempDir()
	idx := &fakeIndexer{}
	mapper := &fakeMapper{}
	w, err := New(dir, idx, mapper)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.debounceDur = 10 * time.Millisecond

	path := filepath.Join(dir, "a.go")
	os.WriteFile(path, []byte("package a\n"), 0644)

	w.mu.Lock()
	w.debounceMap[path] = time.Now()
	w.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	w.processDebounced()

	if len(idx.updates) != 1 {
		t.Errorf("expected debounced event to trigger exactly 1 reindex, got %d", len(idx.updates))
	}
}
