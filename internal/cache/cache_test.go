package cache

import (
	"errors"
	"testing"
	"time"
)

func TestService_SetAndGet(t *testing.T) {
	c := New(3)

	c.Set("**a**", "<p><strong>a</strong></p>")
	c.Set("b", "<p>b</p>")

	got, ok := c.Get("**a**")
	if !ok || got != "<p><strong>a</strong></p>" {
		t.Errorf("Get(**a**) = %q, %v; want rendered a", got, ok)
	}
}

func TestService_Eviction(t *testing.T) {
	c := New(2)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3") // Should evict "a"

	if _, ok := c.Get("a"); ok {
		t.Error("Expected 'a' to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Expected 'b' to exist")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("Expected 'c' to exist")
	}
}

func TestService_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a")      // "b" is now least recently used
	c.Set("c", "3") // Should evict "b"

	if _, ok := c.Get("b"); ok {
		t.Error("Expected 'b' to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("Expected 'a' to exist")
	}
}

func TestService_UpdateExisting(t *testing.T) {
	c := New(2)

	c.Set("key", "value1")
	c.Set("key", "value2")

	got, _ := c.Get("key")
	if got != "value2" {
		t.Errorf("Expected updated value, got %q", got)
	}
	if c.Size() != 1 {
		t.Errorf("Expected size 1, got %d", c.Size())
	}
}

func TestService_Expiration(t *testing.T) {
	c := New(10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("Expected k to exist before expiration")
	}

	now = now.Add(DefaultTTL + time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected k to expire")
	}
	if c.Size() != 0 {
		t.Errorf("Expected stale entry removed, size %d", c.Size())
	}
}

func TestService_GetOrRender(t *testing.T) {
	c := New(10)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<p>x</p>", nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrRender("x", render)
		if err != nil || got != "<p>x</p>" {
			t.Fatalf("GetOrRender = %q, %v", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 render, got %d", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrRender("y", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("Expected render error, got %v", err)
	}
	if _, ok := c.Get("y"); ok {
		t.Error("Failed render should not be cached")
	}
}

func TestService_Stats(t *testing.T) {
	c := New(10)

	c.Set("k1", "v1")
	c.Get("k1")
	c.Get("missing")

	stats := c.Stats()
	if stats.Size != 1 {
		t.Errorf("Expected size 1, got %d", stats.Size)
	}
	if stats.MaxSize != 10 {
		t.Errorf("Expected max size 10, got %d", stats.MaxSize)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestNew_DefaultSize(t *testing.T) {
	if got := New(0).Stats().MaxSize; got != 100 {
		t.Errorf("Expected default max size 100, got %d", got)
	}
}
