package keyvalue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// SQLite is a Store backed by a single-file SQLite database. SQLite has no
// native TTLs, so each row carries its expiry deadline and expired rows are
// dropped on read.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path, creating the file and schema as
// needed. Pass ":memory:" for a throwaway in-process database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite journal mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		expires INTEGER NOT NULL,
		value BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get retrieves the value stored under key, deleting it first if expired.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		expires int64
		value   []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT expires, value FROM entries WHERE key = ?", key).Scan(&expires, &value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get: %w", err)
	}
	if time.Now().UnixNano() > expires {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key); err != nil {
			return nil, false, fmt.Errorf("sqlite delete expired: %w", err)
		}
		return nil, false, nil
	}
	return value, true, nil
}

// Set stores value under key for ttl, replacing any previous row.
func (s *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	expires := time.Now().Add(ttl).UnixNano()
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO entries (key, expires, value) VALUES (?, ?, ?)",
		key, expires, value); err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
