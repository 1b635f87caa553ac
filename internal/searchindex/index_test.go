package searchindex

import (
	"context"
	"testing"
)

func TestScenarioFBM25Ranking(t *testing.T) {
	idx, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	docs := []Document{
		{Path: "doc1", Content: "rust systems programming", Mtime: 1},
		{Path: "doc2", Content: "python high level programming", Mtime: 1},
	}
	if err := idx.Build(docs, 1); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	results, err := idx.Query(context.Background(), "rust", 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) == 0 || results[0].Path != "doc1" {
		t.Errorf("expected doc1 as top-1 for query 'rust', got %v", results)
	}
}

func TestUpdateIncrementalIdempotentOnUnchangedMtimes(t *testing.T) {
	idx, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	docs := []Document{{Path: "a.md", Content: "hello world programming", Mtime: 10}}

	n, err := idx.UpdateIncremental(docs, 1)
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document updated, got %d", n)
	}

	n, err = idx.UpdateIncremental(docs, 2)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 documents updated on identical mtimes, got %d", n)
	}
}

func TestUpdateIncrementalAppliesOnNewerMtime(t *testing.T) {
	idx, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	docs := []Document{{Path: "a.md", Content: "hello world", Mtime: 10}}
	if _, err := idx.UpdateIncremental(docs, 1); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	newer := []Document{{Path: "a.md", Content: "hello world updated", Mtime: 11}}
	n, err := idx.UpdateIncremental(newer, 2)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document updated on newer mtime, got %d", n)
	}
}

func TestTokenizeSharedRule(t *testing.T) {
	tokens := tokenize("Rust systems-programming v2 ab c123")
	want := map[string]bool{"rust": true, "systems": true, "programming": true, "c123": true}
	for _, tok := range tokens {
		if tok == "ab" || tok == "v2" {
			t.Errorf("unexpected short token %q passed the length>=3 filter", tok)
		}
	}
	for w := range want {
		found := false
		for _, tok := range tokens {
			if tok == w {
				found = true
			}
		}
		if !found {
			t.Errorf("expected token %q in tokenized output %v", w, tokens)
		}
	}
}

func TestEmptyCorpusReturnsNoResults(t *testing.T) {
	idx, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer idx.Close()

	results, err := idx.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Query on empty corpus should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from empty corpus, got %v", results)
	}
}
