package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaProvider implements the Provider interface for a local Ollama
// server. Generation is free: EstimateCost always returns zero because
// no pricing table entry exists for local models. Ollama's OpenAI-compatible
// endpoint does not reliably report token counts, so usage is estimated
// with the shared four-bytes-per-token heuristic.
type OllamaProvider struct {
	Base
	httpClient *http.Client
}

// NewOllama creates a new Ollama provider.
func NewOllama(opts Options) (*OllamaProvider, error) {
	model := opts.Model
	if model == "" {
		model = "llama3.2"
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &OllamaProvider{
		Base:       Base{name: "ollama", baseURL: baseURL, model: model},
		httpClient: &http.Client{},
	}, nil
}

// Capabilities returns the declared limits for the configured local model.
// CostPerToken is zero on both sides.
func (p *OllamaProvider) Capabilities() Capability {
	return Capability{
		Model:            p.model,
		MaxContextTokens: 8_192,
		Streaming:        true,
		CostPerToken:     TokenCost{},
		Languages:        []string{"typescript", "javascript", "python"},
		Strengths:        []string{"offline", "free"},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model       string          `json:"model"`
	Messages    []ollamaMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
	Stream      bool            `json:"stream"`
}

type ollamaResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type ollamaErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends a generation request to the local Ollama server.
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(ollamaRequest{
		Model:       p.model,
		Messages:    []ollamaMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp ollamaErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("ollama API error (%d): %s", httpResp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("ollama API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var ollamaResp ollamaResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	content := ""
	if len(ollamaResp.Choices) > 0 {
		content = ollamaResp.Choices[0].Message.Content
	}

	usage := Usage{
		PromptTokens:     EstimateTokens(req.Prompt),
		CompletionTokens: EstimateTokens(content),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	model := ollamaResp.Model
	if model == "" {
		model = p.model
	}

	return &Response{
		Content: content,
		Usage:   usage,
		Model:   model,
	}, nil
}
