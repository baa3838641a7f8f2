package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Fato07/mcp-server-generator/providers"
)

func TestMemory_ImplementsStore(_ *testing.T) {
	var _ Store = (*Memory)(nil)
}

func resp(content string, cost float64) *providers.Response {
	return &providers.Response{
		Content: content,
		Usage:   providers.Usage{TotalTokens: 10, Cost: cost},
		Model:   "gpt-4o-mini",
	}
}

func TestMemory_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)
	defer c.Close()

	if err := c.Set(ctx, "prompt one", "m", resp("out", 0.01), Params{}, time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, ok := c.Get(ctx, "prompt one", "m", Params{})
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Content != "out" {
		t.Errorf("Content = %q, want out", got.Content)
	}
}

func TestMemory_NormalizedHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)
	defer c.Close()

	_ = c.Set(ctx, "Get Weather", "m", resp("sunny", 0), Params{}, time.Minute)
	if _, ok := c.Get(ctx, "get   weather", "m", Params{}); !ok {
		t.Error("expected hit for whitespace/case variant of cached prompt")
	}
}

func TestMemory_Miss(t *testing.T) {
	c := NewMemory(10, 0)
	defer c.Close()
	if _, ok := c.Get(context.Background(), "missing", "m", Params{}); ok {
		t.Error("expected cache miss")
	}
}

func TestMemory_TTLExpiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)
	defer c.Close()

	_ = c.Set(ctx, "p", "m", resp("x", 0), Params{}, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "p", "m", Params{}); ok {
		t.Error("expected cache miss after TTL")
	}
}

func TestMemory_JanitorSweep(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 5*time.Millisecond)
	defer c.Close()

	_ = c.Set(ctx, "p", "m", resp("x", 0), Params{}, 10*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	// The sweep removes expired entries without an access touching them.
	if c.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", c.Len())
	}
}

func TestMemory_LRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, 0)
	defer c.Close()

	_ = c.Set(ctx, "a", "m", resp("a", 0), Params{}, time.Minute)
	_ = c.Set(ctx, "b", "m", resp("b", 0), Params{}, time.Minute)
	_ = c.Set(ctx, "c", "m", resp("c", 0), Params{}, time.Minute) // evicts "a"

	if _, ok := c.Get(ctx, "a", "m", Params{}); ok {
		t.Error("expected 'a' to be evicted")
	}
	if _, ok := c.Get(ctx, "b", "m", Params{}); !ok {
		t.Error("expected 'b' to be present")
	}
	if _, ok := c.Get(ctx, "c", "m", Params{}); !ok {
		t.Error("expected 'c' to be present")
	}
}

func TestMemory_LRUAccessOrder(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, 0)
	defer c.Close()

	_ = c.Set(ctx, "a", "m", resp("a", 0), Params{}, time.Minute)
	_ = c.Set(ctx, "b", "m", resp("b", 0), Params{}, time.Minute)

	c.Get(ctx, "a", "m", Params{}) // refresh "a" — now "b" is LRU

	_ = c.Set(ctx, "c", "m", resp("c", 0), Params{}, time.Minute) // evicts "b"

	if _, ok := c.Get(ctx, "a", "m", Params{}); !ok {
		t.Error("expected 'a' to be present (recently accessed)")
	}
	if _, ok := c.Get(ctx, "b", "m", Params{}); ok {
		t.Error("expected 'b' to be evicted (LRU)")
	}
}

func TestMemory_ZeroCapacityDefaults(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0, 0)
	defer c.Close()

	for i := 0; i < 3; i++ {
		_ = c.Set(ctx, fmt.Sprintf("p%d", i), "m", resp("x", 0), Params{}, time.Minute)
	}
	// A misconfigured capacity must not degenerate to immediate eviction.
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestMemory_Stats(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(100, 0)
	defer c.Close()

	for i := 0; i < 5; i++ {
		prompt := fmt.Sprintf("prompt %d", i)
		_ = c.Set(ctx, prompt, "m", resp("x", 0.02), Params{}, time.Minute)
	}
	for i := 0; i < 5; i++ {
		prompt := fmt.Sprintf("prompt %d", i)
		if _, ok := c.Get(ctx, prompt, "m", Params{}); !ok {
			t.Fatalf("expected hit for %q", prompt)
		}
	}

	s := c.Stats()
	if s.TotalRequests != 5 || s.Hits != 5 || s.Misses != 0 {
		t.Errorf("stats = %+v, want 5 hits of 5 requests", s)
	}
	if s.HitRate != 1.0 {
		t.Errorf("HitRate = %v, want 1.0", s.HitRate)
	}
	// Savings accumulate the attributed cost of every hit.
	if s.CostSavings < 0.0999 || s.CostSavings > 0.1001 {
		t.Errorf("CostSavings = %v, want 0.10", s.CostSavings)
	}
	if s.StorageUsed == 0 {
		t.Error("expected non-zero StorageUsed")
	}
}

func TestMemory_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(10, 0)
	defer c.Close()

	_ = c.Set(ctx, "a", "m", resp("a", 0), Params{}, time.Minute)
	_ = c.Set(ctx, "b", "m", resp("b", 0), Params{}, time.Minute)
	if err := c.Clear(ctx, ""); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	if c.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", c.Len())
	}
	if _, ok := c.Get(ctx, "a", "m", Params{}); ok {
		t.Error("expected miss after clear")
	}
}

func TestMemory_Concurrent(_ *testing.T) {
	ctx := context.Background()
	c := NewMemory(100, 0)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prompt := fmt.Sprintf("prompt %d", i%26)
			_ = c.Set(ctx, prompt, "m", resp("x", 0), Params{}, time.Minute)
			c.Get(ctx, prompt, "m", Params{})
			c.Stats()
		}(i)
	}
	wg.Wait()
}
