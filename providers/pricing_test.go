package providers

import (
	"math"
	"testing"
)

func TestCostFor_KnownModel(t *testing.T) {
	cost := CostFor("openai", "gpt-4o", 1000, 500)
	// 1000/1M * 2.50 + 500/1M * 10.00 = 0.0025 + 0.005 = 0.0075
	expected := 0.0025 + 0.005
	if math.Abs(cost-expected) > 1e-10 {
		t.Errorf("CostFor() = %v, want %v", cost, expected)
	}
}

func TestCostFor_UnknownModel(t *testing.T) {
	cost := CostFor("unknown", "unknown-model", 1000, 500)
	if cost != 0 {
		t.Errorf("CostFor() for unknown model = %v, want 0", cost)
	}
}

func TestCostFor_ZeroUsage(t *testing.T) {
	cost := CostFor("openai", "gpt-4o", 0, 0)
	if cost != 0 {
		t.Errorf("CostFor() for zero usage = %v, want 0", cost)
	}
}

func TestCostFor_Monotonic(t *testing.T) {
	// Non-decreasing in both arguments for fixed rates.
	base := CostFor("anthropic", "claude-3-5-sonnet-20241022", 100, 100)
	morePrompt := CostFor("anthropic", "claude-3-5-sonnet-20241022", 200, 100)
	moreCompletion := CostFor("anthropic", "claude-3-5-sonnet-20241022", 100, 200)

	if morePrompt < base {
		t.Errorf("cost decreased with more prompt tokens: %v < %v", morePrompt, base)
	}
	if moreCompletion < base {
		t.Errorf("cost decreased with more completion tokens: %v < %v", moreCompletion, base)
	}
}

func TestRatesFor_LocalModelFree(t *testing.T) {
	rates := RatesFor("ollama", "llama3.2")
	if rates.Input != 0 || rates.Output != 0 {
		t.Errorf("RatesFor(ollama) = %+v, want zero rates", rates)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"12345678", 2},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
