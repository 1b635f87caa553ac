// Package searchindex implements the hybrid lexical ranker: a persisted
// document store on modernc.org/sqlite, an in-memory BM25 index with a
// TF-IDF cosine fallback, and an optional dense-embedding rerank pass.
//
// Grounded in the teacher's internal/retrieval/sparse.go (keyword
// extraction, ranked candidates) for the lexical layer's shape, and
// internal/store/local.go / internal/store/init_vec.go for the
// persisted-store-as-source-of-truth + cgo-gated vector cache split.
package searchindex

// Document is the SearchIndex unit, keyed by Path. Mtime is the freshness
// key update_incremental uses to decide whether to re-index a path.
type Document struct {
	Path     string
	Content  string
	Mtime    float64
	DocType  string
}

// Result is one scored hit from Query.
type Result struct {
	Path  string
	Score float64
}

// storedDocument is Document plus the store's own bookkeeping column.
type storedDocument struct {
	Document
	IndexedAt float64
}
