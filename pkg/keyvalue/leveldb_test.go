package keyvalue

import (
	"context"
	"testing"
	"time"
)

func newTestLevelDB(t *testing.T) *LevelDB {
	t.Helper()

	store, err := NewLevelDB(t.TempDir())
	if err != nil {
		t.Fatalf("NewLevelDB failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLevelDBRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestLevelDB(t)

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

func TestLevelDBMiss(t *testing.T) {
	store := newTestLevelDB(t)

	_, ok, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Get reported a value for an absent key")
	}
}

func TestLevelDBExpiry(t *testing.T) {
	ctx := context.Background()
	store := newTestLevelDB(t)

	if err := store.Set(ctx, "key", []byte("value"), 30*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)

	_, ok, err := store.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Get returned an expired value")
	}
}

func TestLevelDBOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newTestLevelDB(t)

	if err := store.Set(ctx, "key", []byte("first"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "key", []byte("second"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, _ := store.Get(ctx, "key")
	if !ok || string(value) != "second" {
		t.Errorf("Get = %q, %v, want %q", value, ok, "second")
	}
}

func TestLevelDBShortRecord(t *testing.T) {
	store := newTestLevelDB(t)

	// A record without the expiry prefix, as a disk-corruption stand-in.
	if err := store.db.Put([]byte("key"), []byte("xx"), nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	_, ok, err := store.Get(context.Background(), "key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Get returned a value for a record too short to be valid")
	}
}
