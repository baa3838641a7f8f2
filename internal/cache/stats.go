package cache

import "sync"

// stats accumulates cache counters. Updates happen under one mutex so each
// get/set observes a consistent snapshot.
type stats struct {
	mu            sync.Mutex
	totalRequests int64
	hits          int64
	misses        int64
	costSavings   float64
	storageUsed   int64
}

func (s *stats) recordHit(cost float64) {
	s.mu.Lock()
	s.totalRequests++
	s.hits++
	s.costSavings += cost
	s.mu.Unlock()
}

func (s *stats) recordMiss() {
	s.mu.Lock()
	s.totalRequests++
	s.misses++
	s.mu.Unlock()
}

func (s *stats) addStorage(delta int64) {
	s.mu.Lock()
	s.storageUsed += delta
	if s.storageUsed < 0 {
		s.storageUsed = 0
	}
	s.mu.Unlock()
}

func (s *stats) setStorage(n int64) {
	s.mu.Lock()
	s.storageUsed = n
	s.mu.Unlock()
}

func (s *stats) snapshot() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Statistics{
		TotalRequests: s.totalRequests,
		Hits:          s.hits,
		Misses:        s.misses,
		CostSavings:   s.costSavings,
		StorageUsed:   s.storageUsed,
	}
	if snap.TotalRequests > 0 {
		snap.HitRate = float64(snap.Hits) / float64(snap.TotalRequests)
	}
	return snap
}
