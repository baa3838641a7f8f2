package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockProvider implements the Provider interface for AWS Bedrock.
// Supports Anthropic Claude and Meta Llama models via the Bedrock runtime
// InvokeModel API. Credentials come from the standard AWS chain.
type BedrockProvider struct {
	Base
	client *bedrockruntime.Client
	region string
}

// NewBedrock creates a new AWS Bedrock provider.
// opts.Region defaults to us-east-1.
func NewBedrock(opts Options) (*BedrockProvider, error) {
	model := opts.Model
	if model == "" {
		model = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	if !strings.HasPrefix(model, "anthropic.") && !strings.HasPrefix(model, "meta.llama") {
		return nil, &ConfigError{Kind: KindBedrock, Reason: fmt.Sprintf("unsupported model family: %s", model)}
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockProvider{
		Base:   Base{name: "bedrock", model: model},
		client: bedrockruntime.NewFromConfig(cfg),
		region: region,
	}, nil
}

// Capabilities returns the declared limits and pricing for the configured model.
func (p *BedrockProvider) Capabilities() Capability {
	return Capability{
		Model:            p.model,
		MaxContextTokens: 200_000,
		Streaming:        false,
		CostPerToken:     RatesFor(p.name, p.model),
		Languages:        []string{"typescript", "javascript", "python"},
		Strengths:        []string{"documentation", "enterprise"},
	}
}

type bedrockAnthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      *float64           `json:"temperature,omitempty"`
	StopSequences    []string           `json:"stop_sequences,omitempty"`
}

type bedrockAnthropicResponse struct {
	ID      string `json:"id"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type bedrockLlamaRequest struct {
	Prompt      string   `json:"prompt"`
	MaxGenLen   int      `json:"max_gen_len,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type bedrockLlamaResponse struct {
	Generation           string `json:"generation"`
	PromptTokenCount     int    `json:"prompt_token_count"`
	GenerationTokenCount int    `json:"generation_token_count"`
}

// Generate sends a request to AWS Bedrock and returns the response.
func (p *BedrockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if strings.HasPrefix(p.model, "anthropic.") {
		return p.generateAnthropic(ctx, req)
	}
	return p.generateLlama(ctx, req)
}

func (p *BedrockProvider) generateAnthropic(ctx context.Context, req Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	body, err := json.Marshal(bedrockAnthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Messages:         []anthropicMessage{{Role: "user", Content: req.Prompt}},
		Temperature:      req.Temperature,
		StopSequences:    req.Stop,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke failed: %w", err)
	}

	var resp bedrockAnthropicResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var content strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			content.WriteString(c.Text)
		}
	}

	usage := Usage{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}
	usage.Cost = p.EstimateCost(usage.PromptTokens, usage.CompletionTokens)

	return &Response{
		Content: content.String(),
		Usage:   usage,
		Model:   p.model,
	}, nil
}

func (p *BedrockProvider) generateLlama(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(bedrockLlamaRequest{
		Prompt:      req.Prompt,
		MaxGenLen:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock invoke failed: %w", err)
	}

	var resp bedrockLlamaResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	usage := Usage{
		PromptTokens:     resp.PromptTokenCount,
		CompletionTokens: resp.GenerationTokenCount,
		TotalTokens:      resp.PromptTokenCount + resp.GenerationTokenCount,
	}
	usage.Cost = p.EstimateCost(usage.PromptTokens, usage.CompletionTokens)

	return &Response{
		Content: resp.Generation,
		Usage:   usage,
		Model:   p.model,
	}, nil
}
