package keyvalue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// Memcached is a Store backed by one or more memcached servers.
//
// Memcached limits keys to 250 printable bytes, which URLs routinely
// exceed, so keys are hashed before they reach the wire.
type Memcached struct {
	client *memcache.Client
}

// NewMemcached connects to the given server addresses ("host:port").
func NewMemcached(servers ...string) *Memcached {
	return &Memcached{client: memcache.New(servers...)}
}

// Ping verifies that at least one configured server is reachable.
func (m *Memcached) Ping() error {
	return m.client.Ping()
}

// Get retrieves the value stored under key.
func (m *Memcached) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := m.client.Get(hashKey(key))
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("memcached get: %w", err)
	}
	return item.Value, true, nil
}

// Set stores value under key and lets memcached expire it after ttl.
func (m *Memcached) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	item := &memcache.Item{
		Key:   hashKey(key),
		Value: value,
		// Memcached counts whole seconds; round up so short TTLs don't
		// turn into "never expires".
		Expiration: int32((ttl + time.Second - 1) / time.Second),
	}
	if err := m.client.Set(item); err != nil {
		return fmt.Errorf("memcached set: %w", err)
	}
	return nil
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
