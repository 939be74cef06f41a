// Package cache persists computed fingerprints between runs so unchanged
// files are not decoded and hashed again. The duplicate engine itself is
// stateless; the cache is an opt-in collaborator wired in by the CLI.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed fingerprint store keyed by (path, algorithm).
// Entries are invalidated when the file's size or modification time changes.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at dbPath.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		path TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		mod_time INTEGER NOT NULL,
		fingerprint TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (path, algorithm)
	);

	CREATE INDEX IF NOT EXISTS idx_fingerprints_path ON fingerprints(path);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns the cached fingerprint for the file, or ok=false if there is
// no entry or the entry is stale for the given size and mtime.
func (c *Cache) Get(path, algorithm string, fileSize, modTime int64) (string, bool) {
	var (
		cachedSize  int64
		cachedMtime int64
		fingerprint string
	)
	err := c.db.QueryRow(
		`SELECT file_size, mod_time, fingerprint FROM fingerprints WHERE path = ? AND algorithm = ?`,
		path, algorithm,
	).Scan(&cachedSize, &cachedMtime, &fingerprint)
	if err != nil {
		return "", false
	}
	if cachedSize != fileSize || cachedMtime != modTime {
		return "", false
	}
	return fingerprint, true
}

// Put stores or replaces the fingerprint for the file.
func (c *Cache) Put(path, algorithm string, fileSize, modTime int64, fingerprint string) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO fingerprints (path, algorithm, file_size, mod_time, fingerprint)
		 VALUES (?, ?, ?, ?, ?)`,
		path, algorithm, fileSize, modTime, fingerprint,
	)
	if err != nil {
		return fmt.Errorf("failed to store fingerprint: %w", err)
	}
	return nil
}

// Prune removes entries whose files no longer exist. Returns the number of
// entries removed.
func (c *Cache) Prune() (int, error) {
	rows, err := c.db.Query(`SELECT DISTINCT path FROM fingerprints`)
	if err != nil {
		return 0, fmt.Errorf("failed to list paths: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, path := range stale {
		if _, err := c.db.Exec(`DELETE FROM fingerprints WHERE path = ?`, path); err != nil {
			return 0, fmt.Errorf("failed to delete entry: %w", err)
		}
	}
	return len(stale), nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
