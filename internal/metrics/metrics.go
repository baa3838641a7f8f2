// Package metrics registers the Prometheus metrics used by the enhancement
// pipeline. Import this package (via blank import) from the server entry
// point to register all metrics before the /metrics handler is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task-level counters and histograms.
var (
	// TasksTotal counts completed enhancement tasks labelled by provider,
	// feature, and outcome ("success", "fallback", "cache_hit").
	TasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpgen_enhancement_tasks_total",
			Help: "Total number of enhancement tasks processed.",
		},
		[]string{"provider", "feature", "status"},
	)

	// TaskDuration observes per-task latency in seconds, including cache
	// lookups and provider calls.
	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcpgen_enhancement_task_duration_seconds",
			Help:    "Per-task enhancement duration in seconds.",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "feature"},
	)

	// TokensInput counts total prompt tokens sent to providers.
	TokensInput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpgen_tokens_input_total",
			Help: "Total prompt tokens sent to providers.",
		},
		[]string{"provider", "model"},
	)

	// TokensOutput counts total completion tokens received from providers.
	TokensOutput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpgen_tokens_output_total",
			Help: "Total completion tokens received from providers.",
		},
		[]string{"provider", "model"},
	)

	// CostUSD accumulates the attributed USD cost of provider calls.
	CostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpgen_cost_usd_total",
			Help: "Cumulative USD cost of provider calls.",
		},
		[]string{"provider", "model"},
	)

	// CacheOps counts cache operations labelled by backend and result
	// ("hit", "miss", "error").
	CacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpgen_cache_operations_total",
			Help: "Total response-cache operations by result.",
		},
		[]string{"backend", "result"},
	)
)
