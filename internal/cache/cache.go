// Package cache provides a SQLite-backed response cache for openFDA
// queries. Entries are keyed by endpoint+normalized query and expire
// after a configurable TTL. A nil *Store is a valid no-op cache.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"regnerd/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite cache. Safe for concurrent use: the pool is pinned
// to a single connection and SQLite runs in WAL mode.
type Store struct {
	db     *sql.DB
	dbPath string
	ttl    time.Duration
	now    func() time.Time
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int
	Expired   int
	TotalSize int64 // bytes of cached bodies
	Path      string
}

// Open initializes the cache database at the given path.
func Open(path string, ttl time.Duration) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryCache, "cache.Open")
	defer timer.Stop()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.CacheDebug("failed to set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.CacheDebug("failed to set journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.CacheDebug("failed to set synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db, dbPath: path, ttl: ttl, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Cache("cache opened at %s (ttl=%v)", path, ttl)
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS responses (
		key        TEXT PRIMARY KEY,
		body       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_responses_fetched_at ON responses(fetched_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return nil
}

// Get returns the cached body for the key if present and fresh.
// A nil store always misses.
func (s *Store) Get(key string) ([]byte, bool) {
	if s == nil || key == "" {
		return nil, false
	}

	var body []byte
	var fetchedAt int64
	err := s.db.QueryRow(
		"SELECT body, fetched_at FROM responses WHERE key = ?", key,
	).Scan(&body, &fetchedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logging.CacheDebug("cache get failed: %v", err)
		}
		return nil, false
	}

	if s.now().Sub(time.Unix(fetchedAt, 0)) > s.ttl {
		logging.CacheDebug("cache stale for key %q", key)
		return nil, false
	}

	return body, true
}

// Put upserts a response body. A nil store is a no-op.
func (s *Store) Put(key string, body []byte) error {
	if s == nil || key == "" {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO responses (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (s *Store) Purge() (int64, error) {
	if s == nil {
		return 0, nil
	}

	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := s.db.Exec("DELETE FROM responses WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		logging.Cache("purged %d expired entries", n)
	}
	return n, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if s == nil {
		return nil
	}
	if _, err := s.db.Exec("DELETE FROM responses"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats reports entry counts and total size.
func (s *Store) Stats() (*Stats, error) {
	if s == nil {
		return &Stats{}, nil
	}

	st := &Stats{Path: s.dbPath}
	if err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM responses",
	).Scan(&st.Entries, &st.TotalSize); err != nil {
		return nil, fmt.Errorf("failed to read cache stats: %w", err)
	}

	cutoff := s.now().Add(-s.ttl).Unix()
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM responses WHERE fetched_at < ?", cutoff,
	).Scan(&st.Expired); err != nil {
		return nil, fmt.Errorf("failed to count expired entries: %w", err)
	}
	return st, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
