package provider

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache stores raw provider responses keyed by a hash of the prompt.
// It caches the wire text, not tree snapshots: parsing still runs on
// every hit, so a schema change in the parser invalidates nothing.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// OpenCache opens (creating if needed) the sqlite cache at path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached response body for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	var body string
	err := c.db.QueryRow(`SELECT body FROM responses WHERE key = ?`, key).Scan(&body)
	if err != nil {
		return "", false
	}
	return body, true
}

// Put stores a response body, replacing any previous entry.
func (c *Cache) Put(key, body string) error {
	_, err := c.db.Exec(
		`INSERT INTO responses (key, body) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body`, key, body)
	return err
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

// promptKey hashes a prompt into a stable cache key.
func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
