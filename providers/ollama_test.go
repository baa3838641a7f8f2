package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","choices":[{"message":{"content":"Hello there"}}]}`))
	}))
	defer srv.Close()

	p, err := NewOllama(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewOllama() error: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{Prompt: "say hello"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if resp.Content != "Hello there" {
		t.Errorf("Content = %q, want %q", resp.Content, "Hello there")
	}
	// Usage is estimated locally, never reported by the backend.
	if resp.Usage.PromptTokens != EstimateTokens("say hello") {
		t.Errorf("PromptTokens = %d, want heuristic %d", resp.Usage.PromptTokens, EstimateTokens("say hello"))
	}
	if resp.Usage.Cost != 0 {
		t.Errorf("Cost = %v, want 0 for local backend", resp.Usage.Cost)
	}
}

func TestOllamaProvider_GenerateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model not loaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p, _ := NewOllama(Options{BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestOllamaProvider_ValidatesRequest(t *testing.T) {
	p, _ := NewOllama(Options{})
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Error("expected validation error for empty prompt")
	}
}
