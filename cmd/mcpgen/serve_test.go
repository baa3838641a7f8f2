package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Fato07/mcp-server-generator/enhance"
	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/providers"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) Capabilities() providers.Capability {
	return providers.Capability{Model: "stub-1", MaxContextTokens: 8192}
}

func (stubProvider) EstimateCost(promptTokens, completionTokens int) float64 {
	return float64(promptTokens+completionTokens) * 1e-6
}

func (stubProvider) Generate(_ context.Context, req providers.Request) (*providers.Response, error) {
	tokens := providers.EstimateTokens(req.Prompt)
	return &providers.Response{
		Content: "artifact",
		Model:   "stub-1",
		Usage: providers.Usage{
			PromptTokens:     tokens,
			CompletionTokens: 10,
			TotalTokens:      tokens + 10,
			Cost:             float64(tokens+10) * 1e-6,
		},
	}, nil
}

const sampleBody = `{
  "spec": {
    "openapi": "3.0.0",
    "info": {"title": "Weather API", "version": "1.0.0"},
    "paths": {"/weather": {"get": {"operationId": "getWeather", "summary": "Current conditions"}}}
  },
  "features": ["documentation"]
}`

func newTestRouter(t *testing.T, opts enhance.Options) http.Handler {
	t.Helper()
	store := cache.NewMemory(16, 0)
	t.Cleanup(func() { store.Close() })
	registry := providers.NewRegistry()
	registry.Register(stubProvider{})
	return newRouter(enhance.New(stubProvider{}, store, opts), store, registry)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, enhance.Options{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestEnhanceEndpoint(t *testing.T) {
	r := newTestRouter(t, enhance.Options{TTL: time.Minute})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/enhance", strings.NewReader(sampleBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var result enhance.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Title != "Weather API" {
		t.Errorf("title = %q", result.Title)
	}
	task, ok := result.Tasks[enhance.FeatureDocumentation]
	if !ok || task.Content == "" {
		t.Errorf("documentation task missing or empty: %+v", result.Tasks)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	r := newTestRouter(t, enhance.Options{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(sampleBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var est enhance.CostEstimate
	if err := json.Unmarshal(rec.Body.Bytes(), &est); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if est.TotalUSD <= 0 || len(est.Features) != 1 {
		t.Errorf("estimate = %+v", est)
	}
}

func TestEnhanceEndpointRejectsBadRequests(t *testing.T) {
	r := newTestRouter(t, enhance.Options{})

	for name, body := range map[string]string{
		"not json":        "{",
		"missing spec":    `{"features":["documentation"]}`,
		"unknown feature": `{"spec":{"info":{"title":"x","version":"1"}},"features":["telemetry"]}`,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/enhance", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestEnhanceEndpointBudgetExceeded(t *testing.T) {
	r := newTestRouter(t, enhance.Options{MaxCostUSD: 1e-12})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/enhance", strings.NewReader(sampleBody)))
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want 402", rec.Code)
	}
}

func TestProvidersEndpoint(t *testing.T) {
	r := newTestRouter(t, enhance.Options{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/providers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var caps []providers.Capability
	if err := json.Unmarshal(rec.Body.Bytes(), &caps); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(caps) != 1 || caps[0].Model != "stub-1" {
		t.Errorf("capabilities = %+v", caps)
	}
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter(t, enhance.Options{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	for _, key := range []string{"cache", "enhancer"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("missing %q section", key)
		}
	}
}
