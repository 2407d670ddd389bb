// Package keyvalue defines the storage boundary of the HTTP cache and ships
// adapters for common backends.
//
// A Store is a TTL'd bag of opaque bytes. The cache layer decides what to
// store and for how long; adapters only have to honor the TTL they were
// given, expiring entries on their own. Backends without native TTLs
// (memory, SQLite, LevelDB) record a deadline next to the value and drop
// expired records on read.
package keyvalue

import (
	"context"
	"time"
)

// Store is the key/value contract the HTTP cache writes through.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent or expired; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key for ttl. A non-positive ttl is a no-op:
	// there is nothing useful to store for an already-expired entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
