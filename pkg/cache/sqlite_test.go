package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/dbgasm/pkg/config"
)

func newTestSQLite(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteCache() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCache(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", ok, err)
	}
	if err := c.Set(ctx, "k", []byte("one"), time.Hour); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("two"), 0); err != nil {
		t.Fatalf("Set(replace) error: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "two" {
		t.Errorf("Get() = %q, %v, %v; want two", data, ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestSQLiteCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "gone", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "keep", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "old"); ok {
		t.Error("expired entry should miss")
	}
	n, err := c.Purge(ctx)
	if err != nil || n != 1 {
		t.Errorf("Purge() = %d, %v; want 1 (old was removed by Get)", n, err)
	}
	if _, ok, _ := c.Get(ctx, "keep"); !ok {
		t.Error("entry without ttl should survive Purge")
	}

	if n, err := c.Clear(ctx); err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v; want 1", n, err)
	}
}

func TestSQLiteCachePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c, err = NewSQLiteCache(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if data, ok, _ := c.Get(ctx, "k"); !ok || string(data) != "v" {
		t.Errorf("reopened Get() = %q, %v", data, ok)
	}
}

func TestOpenSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	c, err := Open(context.Background(), config.Cache{Backend: "sqlite"})
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*SQLiteCache); !ok {
		t.Errorf("Open(sqlite) = %T, want *SQLiteCache", c)
	}
}
