package enhance

import "sync"

// Metrics aggregates orchestrator-level counters across runs. Latency and
// success rate are rolling averages over every processed task.
type Metrics struct {
	mu           sync.Mutex
	requests     int64
	latencySum   float64
	successes    int64
	totalCostUSD float64
	featureUse   map[Feature]int64
}

// MetricsSnapshot is a consistent point-in-time view of Metrics.
type MetricsSnapshot struct {
	Requests     int64             `json:"requests"`
	AvgLatencyMS float64           `json:"avgLatencyMs"`
	SuccessRate  float64           `json:"successRate"`
	TotalCostUSD float64           `json:"totalCostUsd"`
	FeatureUsage map[Feature]int64 `json:"featureUsage"`
}

func newMetrics() *Metrics {
	return &Metrics{featureUse: make(map[Feature]int64)}
}

func (m *Metrics) record(feature Feature, latencyMS float64, success bool, costUSD float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	m.latencySum += latencyMS
	if success {
		m.successes++
	}
	m.totalCostUSD += costUSD
	m.featureUse[feature]++
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := MetricsSnapshot{
		Requests:     m.requests,
		TotalCostUSD: m.totalCostUSD,
		FeatureUsage: make(map[Feature]int64, len(m.featureUse)),
	}
	for f, n := range m.featureUse {
		snap.FeatureUsage[f] = n
	}
	if m.requests > 0 {
		snap.AvgLatencyMS = m.latencySum / float64(m.requests)
		snap.SuccessRate = float64(m.successes) / float64(m.requests)
	}
	return snap
}
