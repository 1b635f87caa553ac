package searchindex

import (
	"context"
	"fmt"
	"sync"

	"attnrouter/internal/embedding"
	"attnrouter/internal/logging"

	"golang.org/x/sync/errgroup"
)

const rerankCharLimit = 2000

// Index is the SearchIndex component: a persisted document store plus
// in-memory BM25/TF-IDF indices rebuilt on every mutation, with an
// optional embedding engine for dense rerank.
type Index struct {
	mu sync.RWMutex

	store *store
	bm25  *bm25Index
	tfidf *tfidfIndex

	candidateFactor int
	trueTermFreq    bool

	embedder embedding.EmbeddingEngine
	rerankOn bool
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithTrueTermFrequency switches BM25 from the spec's documented tf=1
// assumption to counted term frequency (§9 Open Question 2).
func WithTrueTermFrequency() Option {
	return func(i *Index) { i.trueTermFreq = true }
}

// WithEmbedder enables rerank using the given embedding engine. A nil
// engine (the zero value of this option) leaves rerank disabled.
func WithEmbedder(e embedding.EmbeddingEngine) Option {
	return func(i *Index) {
		i.embedder = e
		i.rerankOn = e != nil
	}
}

// WithCandidateFactor sets the "3" in "retrieve 3k BM25 candidates"
// (default 3).
func WithCandidateFactor(k int) Option {
	return func(i *Index) { i.candidateFactor = k }
}

// Open opens (or creates) the document store at path and builds the
// in-memory indices from whatever is currently persisted.
func Open(path string, opts ...Option) (*Index, error) {
	st, err := openStore(path)
	if err != nil {
		return nil, err
	}

	idx := &Index{store: st, candidateFactor: 3}
	for _, opt := range opts {
		opt(idx)
	}

	docs, err := st.all()
	if err != nil {
		return nil, err
	}
	idx.rebuildLocked(docs)

	return idx, nil
}

func (i *Index) rebuildLocked(docs []Document) {
	i.bm25 = buildBM25Index(docs, i.trueTermFreq)
	i.tfidf = buildTFIDFIndex(docs)
}

// Build replaces the entire store atomically and rebuilds both indices,
// per spec.md §4.3.
func (i *Index) Build(docs []Document, now float64) error {
	timer := logging.StartTimer(logging.CategorySearchIndex, "Build")
	defer timer.Stop()

	if err := i.store.replaceAll(docs, now); err != nil {
		return fmt.Errorf("search index build failed: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.rebuildLocked(docs)

	logging.Search("build: indexed %d documents", len(docs))
	return nil
}

// UpdateIncremental updates the store for documents that are new or have a
// strictly newer mtime, rebuilding in-memory indices only if anything
// changed. Returns the number of documents updated.
func (i *Index) UpdateIncremental(docs []Document, now float64) (int, error) {
	changed, err := i.store.upsertIfNewer(docs, now)
	if err != nil {
		return 0, fmt.Errorf("search index update_incremental failed: %w", err)
	}
	if len(changed) == 0 {
		return 0, nil
	}

	all, err := i.store.all()
	if err != nil {
		return 0, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.rebuildLocked(all)

	logging.Search("update_incremental: %d documents changed", len(changed))
	return len(changed), nil
}

// Query runs the pipeline from spec.md §4.3: tokenize, retrieve `3k`
// lexical candidates, optionally rerank with embeddings, return the top k.
func (i *Index) Query(ctx context.Context, prompt string, k int) ([]Result, error) {
	i.mu.RLock()
	bm25, tfidf := i.bm25, i.tfidf
	i.mu.RUnlock()

	terms := tokenize(prompt)
	candidateLimit := k * i.candidateFactor
	if candidateLimit <= 0 {
		candidateLimit = k
	}

	var candidates []Result
	if bm25 != nil && bm25.totalDocs > 0 {
		candidates = bm25.search(terms, candidateLimit)
	} else if tfidf != nil {
		candidates = tfidf.search(terms, candidateLimit)
	}

	if len(candidates) == 0 || !i.rerankOn {
		return truncate(candidates, k), nil
	}

	reranked, err := i.rerank(ctx, prompt, candidates)
	if err != nil {
		logging.Get(logging.CategorySearchIndex).Warn("rerank failed, falling back to lexical-only: %v", err)
		return truncate(candidates, k), nil
	}

	return truncate(reranked, k), nil
}

func truncate(results []Result, k int) []Result {
	if k > 0 && len(results) > k {
		return results[:k]
	}
	return results
}

// rerank computes query/document embeddings and combines BM25 with cosine
// similarity per spec.md §4.3 step 3. Any embedding failure (model or
// per-document) aborts rerank entirely and the caller falls back to the
// lexical-only candidate list.
func (i *Index) rerank(ctx context.Context, prompt string, candidates []Result) ([]Result, error) {
	queryVec, err := i.embedder.Embed(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	docs, err := i.store.all()
	if err != nil {
		return nil, err
	}
	contentByPath := make(map[string]string, len(docs))
	for _, d := range docs {
		contentByPath[d.Path] = d.Content
	}

	cosines := make([]float64, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for idx, c := range candidates {
		idx, c := idx, c
		g.Go(func() error {
			content := contentByPath[c.Path]
			if len(content) > rerankCharLimit {
				content = content[:rerankCharLimit]
			}
			vec, err := i.embedder.Embed(gctx, content)
			if err != nil {
				return fmt.Errorf("embed document %s: %w", c.Path, err)
			}
			cos, err := embedding.CosineSimilarity(queryVec, vec)
			if err != nil {
				return fmt.Errorf("cosine similarity for %s: %w", c.Path, err)
			}
			cosines[idx] = cos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	maxBM25 := maxScore(candidates)
	out := make([]Result, len(candidates))
	for idx, c := range candidates {
		normBM25 := 0.0
		if maxBM25 > 0 {
			normBM25 = c.Score / maxBM25
		}
		out[idx] = Result{Path: c.Path, Score: 0.6*normBM25 + 0.4*cosines[idx]}
	}
	sortResultsDesc(out)
	return out, nil
}

// Close releases the underlying store.
func (i *Index) Close() error {
	return i.store.close()
}
