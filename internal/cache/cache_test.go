package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewLRU[string](4, time.Minute)

	if _, ok := c.Get("m1"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("m1", "Blue Bottle")
	got, ok := c.Get("m1")
	if !ok || got != "Blue Bottle" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	c.Set("m1", "Sightglass")
	if got, _ := c.Get("m1"); got != "Sightglass" {
		t.Fatalf("expected replaced value, got %q", got)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestEviction(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a retained")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected c present")
	}
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	c := NewLRU[string](4, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("m1", "Blue Bottle")

	now = now.Add(30 * time.Second)
	if _, ok := c.Get("m1"); !ok {
		t.Fatal("expected hit before TTL")
	}

	now = now.Add(31 * time.Second)
	if _, ok := c.Get("m1"); ok {
		t.Fatal("expected expiry after TTL")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped on read, len=%d", c.Len())
	}
}

func TestCapacityBound(t *testing.T) {
	c := NewLRU[int](8, time.Minute)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	if c.Len() != 8 {
		t.Fatalf("expected len 8, got %d", c.Len())
	}
}
