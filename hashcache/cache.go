// Package hashcache persists chunk content digests between runs so callers
// can tell which chunks changed since the last scan. The digest is opaque
// here; it is stored and compared, never interpreted.
package hashcache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("hashcache: empty db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// WAL suits the write-then-read-next-run access pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("hashcache: %s: %w", pragma, err)
		}
	}

	schema := `
CREATE TABLE IF NOT EXISTS chunk_hashes (
	x    INTEGER NOT NULL,
	z    INTEGER NOT NULL,
	hash BLOB    NOT NULL,
	PRIMARY KEY (x, z)
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("hashcache: init schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the stored digest for a chunk, reporting false when the chunk
// has never been recorded.
func (c *Cache) Get(x, z int) ([]byte, bool, error) {
	var hash []byte
	row := c.db.QueryRow(`SELECT hash FROM chunk_hashes WHERE x=? AND z=?`, x, z)
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return hash, true, nil
}

func (c *Cache) Put(x, z int, hash []byte) error {
	_, err := c.db.Exec(
		`INSERT INTO chunk_hashes (x, z, hash) VALUES (?, ?, ?)
		 ON CONFLICT (x, z) DO UPDATE SET hash=excluded.hash`,
		x, z, hash)
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
