package enhance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/openapi"
	"github.com/Fato07/mcp-server-generator/providers"
)

// fakeProvider is an in-process provider with deterministic output. failOn
// makes any prompt containing that substring fail; empty makes every call
// return blank content.
type fakeProvider struct {
	mu     sync.Mutex
	calls  int
	failOn string
	empty  bool
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Capabilities() providers.Capability {
	return providers.Capability{Model: "fake-1", MaxContextTokens: 8192}
}

func (p *fakeProvider) EstimateCost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens)*1e-6 + float64(completionTokens)*2e-6
}

func (p *fakeProvider) Generate(_ context.Context, req providers.Request) (*providers.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++

	if p.failOn != "" && strings.Contains(req.Prompt, p.failOn) {
		return nil, errors.New("backend unavailable")
	}
	content := "generated artifact"
	if p.empty {
		content = "   "
	}
	usage := providers.Usage{
		PromptTokens:     providers.EstimateTokens(req.Prompt),
		CompletionTokens: 20,
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	usage.Cost = float64(usage.PromptTokens)*1e-6 + float64(usage.CompletionTokens)*2e-6
	return &providers.Response{Content: content, Usage: usage, Model: "fake-1"}, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func compressedDoc() *openapi.Compressed {
	c := &openapi.Compressed{
		Title:   "Weather API",
		Version: "1.0.0",
		Paths: []openapi.PathEntry{
			{Path: "/weather", Operations: []openapi.OperationEntry{
				{Method: "GET", OperationID: "getWeather", Summary: "Current conditions"},
			}},
			{Path: "/alerts", Operations: []openapi.OperationEntry{
				{Method: "POST", OperationID: "createAlert", Summary: "Register an alert"},
			}},
		},
	}
	c.Recalculate()
	return c
}

func newTestEnhancer(t *testing.T, p *fakeProvider, opts Options) *Enhancer {
	t.Helper()
	store := cache.NewMemory(64, 0)
	t.Cleanup(func() { store.Close() })
	return New(p, store, opts)
}

func TestRunDefaultsToAllFeatures(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEnhancer(t, p, Options{})

	res, err := e.Run(context.Background(), compressedDoc(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Tasks) != len(AllFeatures()) {
		t.Fatalf("got %d tasks, want %d", len(res.Tasks), len(AllFeatures()))
	}
	if res.Title != "Weather API" || res.Model != "fake-1" {
		t.Errorf("result header = %q/%q", res.Title, res.Model)
	}
	for f, task := range res.Tasks {
		if task.Cached || task.Fallback {
			t.Errorf("%s: cached=%v fallback=%v on first run", f, task.Cached, task.Fallback)
		}
		if task.Content == "" {
			t.Errorf("%s: empty content", f)
		}
	}
	if res.Total.CostUSD <= 0 || res.Total.TotalTokens <= 0 {
		t.Errorf("total usage not accumulated: %+v", res.Total)
	}
	if got := p.callCount(); got != 3 {
		t.Errorf("provider calls = %d, want 3", got)
	}
}

func TestRunSecondRunServedFromCache(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEnhancer(t, p, Options{TTL: time.Minute})
	doc := compressedDoc()
	ctx := context.Background()

	if _, err := e.Run(ctx, doc, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := e.Run(ctx, doc, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for f, task := range res.Tasks {
		if !task.Cached {
			t.Errorf("%s: not served from cache on second run", f)
		}
	}
	if res.Total.CostUSD != 0 {
		t.Errorf("cached run cost = %v, want 0", res.Total.CostUSD)
	}
	if got := p.callCount(); got != 3 {
		t.Errorf("provider calls = %d, want 3 (no calls on second run)", got)
	}
}

func TestRunIsolatesTaskFailure(t *testing.T) {
	// The validation prompt asks for a review of schema problems; failing on
	// that substring fails exactly one task.
	p := &fakeProvider{failOn: "schema problems"}
	e := newTestEnhancer(t, p, Options{})
	doc := compressedDoc()

	res, err := e.Run(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	val := res.Tasks[FeatureValidation]
	if !val.Fallback {
		t.Fatal("validation task did not fall back")
	}
	if want := openapi.ValidationReport(doc); val.Content != want {
		t.Errorf("fallback content mismatch:\ngot  %q\nwant %q", val.Content, want)
	}
	for _, f := range []Feature{FeatureDocumentation, FeatureExamples} {
		if res.Tasks[f].Fallback {
			t.Errorf("%s: sibling task affected by validation failure", f)
		}
	}
}

func TestRunEmptyContentFallsBack(t *testing.T) {
	p := &fakeProvider{empty: true}
	e := newTestEnhancer(t, p, Options{})

	res, err := e.Run(context.Background(), compressedDoc(), []Feature{FeatureDocumentation})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	task := res.Tasks[FeatureDocumentation]
	if !task.Fallback {
		t.Fatal("blank provider output should trigger the fallback")
	}
	if !strings.Contains(task.Content, "Weather API") {
		t.Errorf("fallback content missing title: %q", task.Content)
	}
}

func TestRunBudgetExceeded(t *testing.T) {
	p := &fakeProvider{}
	e := newTestEnhancer(t, p, Options{MaxCostUSD: 1e-12})

	res, err := e.Run(context.Background(), compressedDoc(), nil)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if got := p.callCount(); got != 0 {
		t.Errorf("provider calls = %d, want 0 before budget rejection", got)
	}
}

func TestMetricsSnapshotAfterRun(t *testing.T) {
	p := &fakeProvider{failOn: "schema problems"}
	e := newTestEnhancer(t, p, Options{})

	if _, err := e.Run(context.Background(), compressedDoc(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	snap := e.Metrics()
	if snap.Requests != 3 {
		t.Errorf("Requests = %d, want 3", snap.Requests)
	}
	if want := 2.0 / 3.0; snap.SuccessRate < want-0.01 || snap.SuccessRate > want+0.01 {
		t.Errorf("SuccessRate = %v, want ~%v", snap.SuccessRate, want)
	}
	if snap.TotalCostUSD <= 0 {
		t.Errorf("TotalCostUSD = %v, want > 0", snap.TotalCostUSD)
	}
	for _, f := range AllFeatures() {
		if snap.FeatureUsage[f] != 1 {
			t.Errorf("FeatureUsage[%s] = %d, want 1", f, snap.FeatureUsage[f])
		}
	}
}

func TestParseFeature(t *testing.T) {
	if f, err := ParseFeature("examples"); err != nil || f != FeatureExamples {
		t.Errorf("ParseFeature(examples) = %v, %v", f, err)
	}
	if _, err := ParseFeature("telemetry"); err == nil {
		t.Error("ParseFeature(telemetry) should fail")
	}
}
