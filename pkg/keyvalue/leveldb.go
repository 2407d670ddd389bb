package keyvalue

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is a Store backed by a LevelDB database directory. Like SQLite,
// LevelDB has no native TTLs: each value is prefixed with an 8-byte expiry
// timestamp and expired records are dropped on read.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens (and if needed creates) the database directory at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldb open: %w", err)
	}
	return &LevelDB{db: db}, nil
}

// Get retrieves the value stored under key, deleting it first if expired.
func (l *LevelDB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := l.db.Get([]byte(key), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("leveldb get: %w", err)
	}
	if len(raw) < 8 {
		// Too short to carry an expiry prefix; treat as absent.
		return nil, false, nil
	}
	expires := int64(binary.BigEndian.Uint64(raw[:8]))
	if time.Now().UnixNano() > expires {
		if err := l.db.Delete([]byte(key), nil); err != nil {
			return nil, false, fmt.Errorf("leveldb delete expired: %w", err)
		}
		return nil, false, nil
	}
	return raw[8:], true, nil
}

// Set stores value under key for ttl, replacing any previous record.
func (l *LevelDB) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(raw[:8], uint64(time.Now().Add(ttl).UnixNano()))
	copy(raw[8:], value)
	if err := l.db.Put([]byte(key), raw, nil); err != nil {
		return fmt.Errorf("leveldb set: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (l *LevelDB) Close() error {
	return l.db.Close()
}
