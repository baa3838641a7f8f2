// Package cache implements the response cache consulted before every paid
// provider call. Two interchangeable stores satisfy the Store interface:
// Memory, a bounded process-local LRU, and SQL, a shared SQLite- or
// Postgres-backed store. Lookups are exact-key only; a key is the SHA-256
// digest of the normalised prompt, model id, and sampling parameters.
//
// Semantic (embedding-based) similarity matching is intentionally not
// implemented; the key space supports it being added as a separate store.
package cache

import (
	"context"
	"time"

	"github.com/Fato07/mcp-server-generator/providers"
)

// Params are the sampling parameters folded into the cache key. Requests
// that differ in any of these fields never share an entry.
type Params struct {
	MaxTokens   int      `json:"maxTokens"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// Store is the key-value-with-TTL contract shared by all cache backends.
// The orchestrator never mutates entries directly; hits and expiry are
// managed entirely inside the store.
type Store interface {
	// Get returns the cached response for the (prompt, model, params)
	// tuple, or false on miss. Backend failures count as misses.
	Get(ctx context.Context, prompt, model string, p Params) (*providers.Response, bool)
	// Set stores a response under the derived key with the given TTL.
	Set(ctx context.Context, prompt, model string, resp *providers.Response, p Params, ttl time.Duration) error
	Stats() Statistics
	// Clear removes entries whose key starts with pattern; an empty
	// pattern removes every entry in the store's namespace.
	Clear(ctx context.Context, pattern string) error
	Close() error
}

// Entry is the persisted wire format of a cached response.
type Entry struct {
	Key      string             `json:"key"`
	Value    providers.Response `json:"value"`
	Metadata Metadata           `json:"metadata"`
}

// Metadata tracks the lifecycle of a cache entry.
type Metadata struct {
	Created  time.Time `json:"created"`
	Accessed time.Time `json:"accessed"`
	Hits     int64     `json:"hits"`
	Cost     float64   `json:"cost"`
}

// Statistics is a point-in-time snapshot of cache performance.
type Statistics struct {
	TotalRequests int64   `json:"totalRequests"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	HitRate       float64 `json:"hitRate"`
	CostSavings   float64 `json:"costSavings"`
	StorageUsed   int64   `json:"storageUsed"`
}
