package enhance

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/internal/logging"
	"github.com/Fato07/mcp-server-generator/internal/metrics"
	"github.com/Fato07/mcp-server-generator/openapi"
	"github.com/Fato07/mcp-server-generator/providers"
)

// Options configures an Enhancer.
type Options struct {
	// TTL applied to every cache write.
	TTL time.Duration
	// MaxCostUSD is the pre-flight budget ceiling; zero disables the check.
	MaxCostUSD float64
	// CallTimeout bounds each provider call; zero means no extra deadline.
	CallTimeout time.Duration
}

// Enhancer coordinates enhancement tasks: compress-derived prompts in,
// cache-first lookups, provider calls on miss, deterministic substitutes on
// failure.
type Enhancer struct {
	provider providers.Provider
	store    cache.Store
	opts     Options
	group    singleflight.Group
	metrics  *Metrics
}

// TaskResult is the outcome of one enhancement task.
type TaskResult struct {
	Feature  Feature     `json:"feature"`
	Content  string      `json:"content"`
	Cached   bool        `json:"cached"`
	Fallback bool        `json:"fallback"`
	Usage    UsageTotals `json:"usage"`
}

// Result aggregates every task of a run.
type Result struct {
	Title string                 `json:"title"`
	Model string                 `json:"model"`
	Tasks map[Feature]TaskResult `json:"tasks"`
	Total UsageTotals            `json:"total"`
}

// UsageTotals accumulates token and cost figures.
type UsageTotals struct {
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	CostUSD          float64 `json:"costUsd"`
}

func (u *UsageTotals) add(o UsageTotals) {
	u.PromptTokens += o.PromptTokens
	u.CompletionTokens += o.CompletionTokens
	u.TotalTokens += o.TotalTokens
	u.CostUSD += o.CostUSD
}

// New creates an Enhancer over the given provider and cache store.
func New(p providers.Provider, store cache.Store, opts Options) *Enhancer {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	return &Enhancer{
		provider: p,
		store:    store,
		opts:     opts,
		metrics:  newMetrics(),
	}
}

// Metrics exposes the orchestrator's rolling counters.
func (e *Enhancer) Metrics() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// Run executes the requested features against a compressed document and
// returns a best-effort aggregate. A failing task falls back to a
// deterministic substitute for that task only; sibling tasks are never
// affected. The only error Run itself returns is ErrBudgetExceeded from the
// pre-flight estimate, raised before any generation call.
func (e *Enhancer) Run(ctx context.Context, c *openapi.Compressed, features []Feature) (*Result, error) {
	if len(features) == 0 {
		features = AllFeatures()
	}

	if e.opts.MaxCostUSD > 0 {
		est := e.Estimate(c, features)
		if est.TotalUSD > e.opts.MaxCostUSD {
			return nil, ErrBudgetExceeded
		}
	}

	result := &Result{
		Title: c.Title,
		Model: e.provider.Capabilities().Model,
		Tasks: make(map[Feature]TaskResult, len(features)),
	}

	for _, feature := range features {
		task := e.runTask(ctx, c, feature)
		result.Tasks[feature] = task
		result.Total.add(task.Usage)
	}
	return result, nil
}

func (e *Enhancer) runTask(ctx context.Context, c *openapi.Compressed, feature Feature) TaskResult {
	start := time.Now()
	log := logging.FromContext(ctx).With("feature", string(feature), "provider", e.provider.Name())

	prompt := buildPrompt(feature, c)
	params := paramsFor(feature)
	model := e.provider.Capabilities().Model

	if resp, ok := e.store.Get(ctx, prompt, model, params); ok {
		e.finish(feature, start, true, 0, "cache_hit")
		return TaskResult{
			Feature: feature,
			Content: resp.Content,
			Cached:  true,
			Usage:   UsageTotals{}, // a hit costs nothing
		}
	}

	resp, err := e.generate(ctx, feature, prompt, model, params)
	if err != nil {
		log.Warn("enhancement task failed, using deterministic substitute", "error", err)
		e.finish(feature, start, false, 0, "fallback")
		return TaskResult{
			Feature:  feature,
			Content:  fallbackContent(feature, c),
			Fallback: true,
		}
	}

	if err := e.store.Set(ctx, prompt, model, resp, params, e.opts.TTL); err != nil {
		// A failed write only forfeits future savings.
		log.Warn("cache write failed", "error", err)
	}

	usage := UsageTotals{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		CostUSD:          resp.Usage.Cost,
	}
	metrics.TokensInput.WithLabelValues(e.provider.Name(), resp.Model).Add(float64(usage.PromptTokens))
	metrics.TokensOutput.WithLabelValues(e.provider.Name(), resp.Model).Add(float64(usage.CompletionTokens))
	metrics.CostUSD.WithLabelValues(e.provider.Name(), resp.Model).Add(usage.CostUSD)

	e.finish(feature, start, true, usage.CostUSD, "success")
	return TaskResult{
		Feature: feature,
		Content: resp.Content,
		Usage:   usage,
	}
}

// generate performs the provider call behind a singleflight group keyed by
// the cache key: concurrent callers for the same missing key share one paid
// call instead of issuing duplicates.
func (e *Enhancer) generate(ctx context.Context, feature Feature, prompt, model string, params cache.Params) (*providers.Response, error) {
	key := cache.Key(prompt, model, params)

	v, err, _ := e.group.Do(key, func() (any, error) {
		callCtx := ctx
		if e.opts.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, e.opts.CallTimeout)
			defer cancel()
		}

		resp, err := e.provider.Generate(callCtx, providers.Request{
			Prompt:      prompt,
			MaxTokens:   params.MaxTokens,
			Temperature: params.Temperature,
			Stop:        params.Stop,
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(resp.Content) == "" {
			return nil, &MalformedResponseError{Feature: feature, Reason: "empty content"}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*providers.Response), nil
}

func (e *Enhancer) finish(feature Feature, start time.Time, success bool, costUSD float64, status string) {
	elapsed := time.Since(start)
	metrics.TasksTotal.WithLabelValues(e.provider.Name(), string(feature), status).Inc()
	metrics.TaskDuration.WithLabelValues(e.provider.Name(), string(feature)).Observe(elapsed.Seconds())
	e.metrics.record(feature, float64(elapsed.Milliseconds()), success, costUSD)
}
