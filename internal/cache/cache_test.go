package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)

	if err := c.Put("/photos/a.jpg", "dhash", 4096, 1700000000, "ffd8b0c4a2911080"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Get("/photos/a.jpg", "dhash", 4096, 1700000000)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got != "ffd8b0c4a2911080" {
		t.Errorf("Get = %q, want ffd8b0c4a2911080", got)
	}
}

func TestGet_Miss(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put("/photos/a.jpg", "dhash", 4096, 1700000000, "ffd8b0c4a2911080"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		algorithm string
		size      int64
		mtime     int64
	}{
		{"unknown path", "/photos/b.jpg", "dhash", 4096, 1700000000},
		{"different algorithm", "/photos/a.jpg", "phash", 4096, 1700000000},
		{"size changed", "/photos/a.jpg", "dhash", 8192, 1700000000},
		{"mtime changed", "/photos/a.jpg", "dhash", 4096, 1700000099},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := c.Get(tt.path, tt.algorithm, tt.size, tt.mtime); ok {
				t.Error("expected a miss")
			}
		})
	}
}

func TestPut_Replace(t *testing.T) {
	c := openTestCache(t)

	if err := c.Put("/photos/a.jpg", "dhash", 4096, 1700000000, "0000000000000000"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("/photos/a.jpg", "dhash", 8192, 1700000050, "ffffffffffffffff"); err != nil {
		t.Fatal(err)
	}

	got, ok := c.Get("/photos/a.jpg", "dhash", 8192, 1700000050)
	if !ok || got != "ffffffffffffffff" {
		t.Errorf("Get = %q, %v; want replacement entry", got, ok)
	}
}

func TestPut_PerAlgorithm(t *testing.T) {
	c := openTestCache(t)

	if err := c.Put("/photos/a.jpg", "dhash", 4096, 1700000000, "1111111111111111"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("/photos/a.jpg", "phash", 4096, 1700000000, "2222222222222222"); err != nil {
		t.Fatal(err)
	}

	if got, _ := c.Get("/photos/a.jpg", "dhash", 4096, 1700000000); got != "1111111111111111" {
		t.Errorf("dhash entry = %q", got)
	}
	if got, _ := c.Get("/photos/a.jpg", "phash", 4096, 1700000000); got != "2222222222222222" {
		t.Errorf("phash entry = %q", got)
	}
}

func TestPrune(t *testing.T) {
	c := openTestCache(t)

	tmpDir := t.TempDir()
	live := filepath.Join(tmpDir, "live.jpg")
	if err := os.WriteFile(live, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := c.Put(live, "dhash", 1, 1700000000, "1111111111111111"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(filepath.Join(tmpDir, "gone.jpg"), "dhash", 1, 1700000000, "2222222222222222"); err != nil {
		t.Fatal(err)
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d entries, want 1", removed)
	}

	if _, ok := c.Get(live, "dhash", 1, 1700000000); !ok {
		t.Error("live entry should survive pruning")
	}
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}
