package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// MetadataStore caches upstream REST payloads (event metadata) in
// SQLite so repeated lookups within the TTL don't hit the venue. Book
// state is never persisted; the registry is memory-resident and rebuilt
// each session.
type MetadataStore struct {
	db *sql.DB
}

// NewMetadataStore opens (or creates) the cache database with WAL mode.
func NewMetadataStore(dbPath string) (*MetadataStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;", // 2MB cache
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata table: %w", err)
	}

	return &MetadataStore{db: db}, nil
}

// Put stores or replaces a cached payload under key.
func (s *MetadataStore) Put(ctx context.Context, key, value string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
		key, value, ts.UnixMilli(),
	)
	return err
}

// Get returns the cached payload and its write time. A missing key
// returns ok=false, not an error.
func (s *MetadataStore) Get(ctx context.Context, key string) (value string, ts time.Time, ok bool, err error) {
	var ms int64
	err = s.db.QueryRowContext(ctx,
		"SELECT value, updated_at FROM metadata WHERE key = ?", key,
	).Scan(&value, &ms)
	if err == sql.ErrNoRows {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, err
	}
	return value, time.UnixMilli(ms), true, nil
}

// GetFresh returns the cached payload only if it was written within
// ttl of now.
func (s *MetadataStore) GetFresh(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	value, ts, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	if time.Since(ts) > ttl {
		return "", false, nil
	}
	return value, true, nil
}

// Close closes the database connection.
func (s *MetadataStore) Close() error {
	return s.db.Close()
}
