//go:build sqlite_vec && cgo

package searchindex

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Registers vec0 as an auto-loadable extension on the mattn/go-sqlite3
	// driver, mirroring the teacher's internal/store/init_vec.go exactly.
	vec.Auto()
}

// vectorCache stores document embeddings keyed by content hash in a
// sqlite-vec virtual table. It is only compiled in when built with
// -tags sqlite_vec and cgo enabled. Index.rerank does not read from or
// write to it, so in every build each rerank embeds its candidates anew.
type vectorCache struct {
	db  *sql.DB
	dim int
}

func openVectorCache(path string, dim int) (*vectorCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector cache: %w", err)
	}

	schema := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS embedding_cache USING vec0(
		content_hash TEXT PRIMARY KEY,
		embedding float[%d]
	)`, dim)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vec0 cache table: %w", err)
	}

	return &vectorCache{db: db, dim: dim}, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum)
}

func (c *vectorCache) get(content string) ([]float32, bool) {
	var blob []byte
	err := c.db.QueryRow(
		`SELECT embedding FROM embedding_cache WHERE content_hash = ?`,
		contentHash(content),
	).Scan(&blob)
	if err != nil {
		return nil, false
	}
	return decodeFloat32s(blob), true
}

func (c *vectorCache) put(content string, vecData []float32) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO embedding_cache (content_hash, embedding) VALUES (?, ?)`,
		contentHash(content), encodeFloat32s(vecData),
	)
	return err
}

func (c *vectorCache) close() error {
	return c.db.Close()
}

func encodeFloat32s(vals []float32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeFloat32s(buf []byte) []float32 {
	n := len(buf) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}
