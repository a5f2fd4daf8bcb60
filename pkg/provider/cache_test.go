package provider

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "nested", "responses.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachePutGet(t *testing.T) {
	c := openTestCache(t)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}
	if err := c.Put("k1", "body one"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if body, ok := c.Get("k1"); !ok || body != "body one" {
		t.Errorf("Get(k1) = %q, %v", body, ok)
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := openTestCache(t)

	if err := c.Put("k", "first"); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", "second"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if body, _ := c.Get("k"); body != "second" {
		t.Errorf("Get after overwrite = %q, want second", body)
	}
}

func TestCacheSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")
	c, err := OpenCache(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", "persisted"); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c2, err := OpenCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	if body, ok := c2.Get("k"); !ok || body != "persisted" {
		t.Errorf("Get after reopen = %q, %v", body, ok)
	}
}

func TestPromptKeyStable(t *testing.T) {
	a := promptKey("same prompt")
	b := promptKey("same prompt")
	if a != b {
		t.Error("promptKey not deterministic")
	}
	if a == promptKey("other prompt") {
		t.Error("distinct prompts collided")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}
