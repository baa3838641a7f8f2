package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Fato07/mcp-server-generator/internal/metrics"
	"github.com/Fato07/mcp-server-generator/providers"
)

type memoryEntry struct {
	entry     Entry
	size      int64
	expiresAt time.Time
}

// Memory is a thread-safe, strictly process-local LRU cache with TTL
// expiration. Inserting beyond capacity evicts the least-recently-accessed
// entry; a background janitor purges expired entries independent of access.
type Memory struct {
	mu        sync.Mutex
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	stats     stats
	stop      chan struct{}
	stopOnce  sync.Once
}

// defaultCapacity bounds the cache when the caller passes a non-positive
// capacity.
const defaultCapacity = 1000

// NewMemory creates a local LRU cache holding at most capacity entries;
// capacity <= 0 selects defaultCapacity. sweepEvery sets the janitor
// interval; zero disables the sweep.
func NewMemory(capacity int, sweepEvery time.Duration) *Memory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	m := &Memory{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		stop:      make(chan struct{}),
	}
	if sweepEvery > 0 {
		go m.janitor(sweepEvery)
	}
	return m
}

// Get returns the cached response for the tuple, or false on miss or expiry.
func (m *Memory) Get(_ context.Context, prompt, model string, p Params) (*providers.Response, bool) {
	key := Key(prompt, model, p)

	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		m.stats.recordMiss()
		metrics.CacheOps.WithLabelValues("memory", "miss").Inc()
		return nil, false
	}

	me := elem.Value.(*memoryEntry)
	if time.Now().After(me.expiresAt) {
		m.removeElement(elem)
		m.stats.recordMiss()
		metrics.CacheOps.WithLabelValues("memory", "miss").Inc()
		return nil, false
	}

	me.entry.Metadata.Hits++
	me.entry.Metadata.Accessed = time.Now().UTC()
	m.evictList.MoveToFront(elem)

	m.stats.recordHit(me.entry.Metadata.Cost)
	metrics.CacheOps.WithLabelValues("memory", "hit").Inc()

	resp := me.entry.Value
	return &resp, true
}

// Set stores a response under the derived key, evicting the LRU entry when
// the cache is at capacity.
func (m *Memory) Set(_ context.Context, prompt, model string, resp *providers.Response, p Params, ttl time.Duration) error {
	key := Key(prompt, model, p)
	now := time.Now().UTC()
	me := &memoryEntry{
		entry: Entry{
			Key:   key,
			Value: *resp,
			Metadata: Metadata{
				Created:  now,
				Accessed: now,
				Cost:     resp.Usage.Cost,
			},
		},
		size:      int64(len(resp.Content)),
		expiresAt: now.Add(ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		old := elem.Value.(*memoryEntry)
		m.stats.addStorage(me.size - old.size)
		elem.Value = me
		m.evictList.MoveToFront(elem)
		return nil
	}

	if m.evictList.Len() >= m.capacity {
		m.removeOldest()
	}

	elem := m.evictList.PushFront(me)
	m.items[key] = elem
	m.stats.addStorage(me.size)
	return nil
}

// Stats returns a snapshot of cache counters.
func (m *Memory) Stats() Statistics {
	return m.stats.snapshot()
}

// Clear removes entries whose key starts with pattern; an empty pattern
// removes everything.
func (m *Memory) Clear(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pattern == "" {
		m.items = make(map[string]*list.Element)
		m.evictList.Init()
		m.stats.setStorage(0)
		return nil
	}
	for key, elem := range m.items {
		if strings.HasPrefix(key, pattern) {
			m.removeElement(elem)
		}
	}
	return nil
}

// Close stops the janitor goroutine.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// Len returns the number of entries currently in the cache.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictList.Len()
}

func (m *Memory) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep purges TTL-expired entries regardless of recency.
func (m *Memory) sweep() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, elem := range m.items {
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			m.removeElement(elem)
		}
	}
}

func (m *Memory) removeOldest() {
	if elem := m.evictList.Back(); elem != nil {
		m.removeElement(elem)
	}
}

func (m *Memory) removeElement(elem *list.Element) {
	m.evictList.Remove(elem)
	me := elem.Value.(*memoryEntry)
	delete(m.items, me.entry.Key)
	m.stats.addStorage(-me.size)
}
