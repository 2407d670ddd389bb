package keyvalue

import (
	"context"
	"strings"
	"testing"
	"time"
)

// setupTestMemcached connects to a local memcached, skipping the test when
// none is running.
func setupTestMemcached(t *testing.T) *Memcached {
	t.Helper()

	store := NewMemcached("localhost:11211")
	if err := store.Ping(); err != nil {
		t.Skipf("memcached not available for testing: %v", err)
	}
	return store
}

func TestMemcachedRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestMemcached(t)

	if err := store.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("Get returned no value for a stored key")
	}
	if string(value) != "value" {
		t.Errorf("Get = %q, want %q", value, "value")
	}
}

func TestMemcachedMiss(t *testing.T) {
	store := setupTestMemcached(t)

	_, ok, err := store.Get(context.Background(), "absent-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Get reported a value for an absent key")
	}
}

func TestMemcachedLongKey(t *testing.T) {
	ctx := context.Background()
	store := setupTestMemcached(t)

	// Raw URLs blow memcached's 250-byte key limit; hashing must hide that.
	key := "https://api.example.com/people?filter=" + strings.Repeat("x", 400)
	if err := store.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || string(value) != "value" {
		t.Errorf("Get = %q, %v, want %q", value, ok, "value")
	}
}

func TestHashKeyDeterministic(t *testing.T) {
	if hashKey("a") != hashKey("a") {
		t.Error("hashKey should be deterministic")
	}
	if hashKey("a") == hashKey("b") {
		t.Error("hashKey should differ for different keys")
	}
	if n := len(hashKey(strings.Repeat("x", 1000))); n != 64 {
		t.Errorf("hashKey length = %d, want 64", n)
	}
}
