// Package store caches extraction results in SQLite, keyed by digests of
// everything that determines them.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a SQLite connection for the result cache.
type Store struct {
	db     *sql.DB
	dbPath string

	hits   atomic.Uint64
	misses atomic.Uint64

	// maxEntries bounds the results table; 0 means unbounded.
	maxEntries int
}

// OpenPath opens a SQLite database at the given path, creating its
// directory if needed.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite database (for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, dbPath: ":memory:"}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// SetMaxEntries bounds the number of cached results. Each Put beyond the
// bound evicts the least recently used entries. n <= 0 removes the bound.
func (s *Store) SetMaxEntries(n int) {
	if n < 0 {
		n = 0
	}
	s.maxEntries = n
}

// Path returns the database location.
func (s *Store) Path() string { return s.dbPath }

// WithTransaction executes fn within a single SQLite transaction.
func (s *Store) WithTransaction(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		language TEXT NOT NULL,
		kind TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		pattern_hash TEXT NOT NULL,
		params_hash TEXT NOT NULL,
		payload TEXT NOT NULL,
		used_at INTEGER NOT NULL,
		PRIMARY KEY (language, kind, source_hash, pattern_hash, params_hash)
	);

	CREATE INDEX IF NOT EXISTS idx_results_used ON results(used_at);
	`
	_, err := s.db.Exec(schema)
	return err
}
