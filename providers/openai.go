package providers

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	Base
	client openai.Client
}

// NewOpenAI creates a new OpenAI provider. opts.BaseURL overrides the API
// endpoint (leave empty for the default).
func NewOpenAI(opts Options) (*OpenAIProvider, error) {
	if opts.APIKey == "" {
		return nil, &ConfigError{Kind: KindOpenAI, Reason: "api key is required"}
	}
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
	}
	resolvedBase := "https://api.openai.com"
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
		resolvedBase = opts.BaseURL
	}
	client := openai.NewClient(clientOpts...)
	return &OpenAIProvider{
		Base:   Base{name: "openai", apiKey: opts.APIKey, baseURL: resolvedBase, model: model},
		client: client,
	}, nil
}

// Capabilities returns the declared limits and pricing for the configured model.
func (p *OpenAIProvider) Capabilities() Capability {
	return Capability{
		Model:            p.model,
		MaxContextTokens: 128_000,
		Streaming:        true,
		CostPerToken:     RatesFor(p.name, p.model),
		Languages:        []string{"typescript", "javascript", "python", "go"},
		Strengths:        []string{"documentation", "examples", "structured-output"},
	}
}

// Generate sends a generation request to OpenAI.
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model: p.model,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.Stop,
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}

	content := ""
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	usage := Usage{
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
	}
	usage.Cost = p.EstimateCost(usage.PromptTokens, usage.CompletionTokens)

	return &Response{
		Content: content,
		Usage:   usage,
		Model:   completion.Model,
	}, nil
}
