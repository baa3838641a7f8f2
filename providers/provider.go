// Package providers defines the Provider interface and shared data types
// used across all text-generation backend implementations.
//
// The Provider interface must be implemented by any backend that the
// enhancement pipeline can generate content with. Each provider declares
// its capabilities (context window, pricing, strengths) and estimates the
// cost of a call from token counts, so the orchestrator can budget spend
// before any paid request is issued.
//
// Core types: Request, Response, Usage, Capability.
package providers

import (
	"context"
	"errors"
)

// Provider is the uniform interface over text-generation backends.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
	Capabilities() Capability
	// EstimateCost returns the predicted USD cost of a call consuming the
	// given prompt and completion token counts.
	EstimateCost(promptTokens, completionTokens int) float64
}

// Request represents a single generation request.
type Request struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// Validate returns an error if the request is missing required fields or
// contains out-of-range parameter values.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return errors.New("prompt is required")
	}
	if r.MaxTokens < 0 {
		return errors.New("max_tokens must not be negative")
	}
	if r.Temperature != nil && (*r.Temperature < 0 || *r.Temperature > 2) {
		return errors.New("temperature must be between 0 and 2")
	}
	return nil
}

// Response represents a generation response normalised across providers.
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
	Model   string `json:"model"`
}

// Usage carries token consumption and the attributed USD cost of a call.
type Usage struct {
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	Cost             float64 `json:"cost"`
}

// TokenCost holds per-token prices in USD.
type TokenCost struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Capability describes the declared limits and pricing of a backend.
type Capability struct {
	Model            string    `json:"model"`
	MaxContextTokens int       `json:"maxContextTokens"`
	Streaming        bool      `json:"streaming"`
	CostPerToken     TokenCost `json:"costPerToken"`
	Languages        []string  `json:"languages"`
	Strengths        []string  `json:"strengths"`
}

// EstimateTokens approximates the token count of a string using the
// four-bytes-per-token heuristic. The same heuristic is applied everywhere
// a backend does not report exact counts, so estimates stay comparable.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + 3) / 4
}
