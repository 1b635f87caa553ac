package searchindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"attnrouter/internal/logging"

	_ "modernc.org/sqlite"
)

// store is the persistent (path, content, mtime, doc_type, indexed_at)
// table — the source of truth. In-memory BM25/TF-IDF indices are rebuilt
// from it; it never trusts the in-memory side.
type store struct {
	mu sync.Mutex
	db *sql.DB
}

func openStore(path string) (*store, error) {
	if path != "" && path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create search index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index store: %w", err)
	}

	s := &store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Search("search index store opened at %s", path)
	return s, nil
}

func (s *store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		outline TEXT,
		mtime REAL NOT NULL,
		doc_type TEXT,
		indexed_at REAL NOT NULL
	);
	CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
		path UNINDEXED, content, content='documents', content_rowid='rowid'
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize search index schema: %w", err)
	}
	return nil
}

// replaceAll atomically clears and repopulates the store, per build()'s
// contract.
func (s *store) replaceAll(docs []Document, now float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents_fts`); err != nil {
		return fmt.Errorf("failed to clear fts mirror: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO documents (path, content, mtime, doc_type, indexed_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO documents_fts (path, content) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, d := range docs {
		if _, err := stmt.Exec(d.Path, d.Content, d.Mtime, d.DocType, now); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", d.Path, err)
		}
		if _, err := ftsStmt.Exec(d.Path, d.Content); err != nil {
			return fmt.Errorf("failed to insert fts mirror for %s: %w", d.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// upsertIfNewer updates the store iff no prior entry exists or the new
// mtime is strictly greater. Returns the paths actually changed.
func (s *store) upsertIfNewer(docs []Document, now float64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var changed []string
	for _, d := range docs {
		var existingMtime float64
		err := tx.QueryRow(`SELECT mtime FROM documents WHERE path = ?`, d.Path).Scan(&existingMtime)
		switch {
		case err == sql.ErrNoRows:
			// new document
		case err != nil:
			return nil, fmt.Errorf("failed to query existing document %s: %w", d.Path, err)
		default:
			if d.Mtime <= existingMtime {
				continue
			}
		}

		if _, err := tx.Exec(`
			INSERT INTO documents (path, content, mtime, doc_type, indexed_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET content=excluded.content, mtime=excluded.mtime, doc_type=excluded.doc_type, indexed_at=excluded.indexed_at
		`, d.Path, d.Content, d.Mtime, d.DocType, now); err != nil {
			return nil, fmt.Errorf("failed to upsert document %s: %w", d.Path, err)
		}

		if _, err := tx.Exec(`DELETE FROM documents_fts WHERE path = ?`, d.Path); err != nil {
			return nil, fmt.Errorf("failed to clear fts mirror for %s: %w", d.Path, err)
		}
		if _, err := tx.Exec(`INSERT INTO documents_fts (path, content) VALUES (?, ?)`, d.Path, d.Content); err != nil {
			return nil, fmt.Errorf("failed to update fts mirror for %s: %w", d.Path, err)
		}

		changed = append(changed, d.Path)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return changed, nil
}

func (s *store) all() ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT path, content, mtime, doc_type FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Path, &d.Content, &d.Mtime, &d.DocType); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *store) close() error {
	return s.db.Close()
}
