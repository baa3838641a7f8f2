package providers

// ModelPricing holds per-token prices in USD per 1 million tokens.
type ModelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

// PricingTable maps "provider/model" keys to pricing data.
// Prices are in USD per 1 million tokens (as listed on public pricing pages).
// This table is best-effort and may lag behind provider price changes.
// Local backends are deliberately absent: missing entries price at zero.
var PricingTable = map[string]ModelPricing{
	// OpenAI
	"openai/gpt-4o":        {InputPer1M: 2.50, OutputPer1M: 10.00},
	"openai/gpt-4o-mini":   {InputPer1M: 0.15, OutputPer1M: 0.60},
	"openai/gpt-4-turbo":   {InputPer1M: 10.00, OutputPer1M: 30.00},
	"openai/gpt-4":         {InputPer1M: 30.00, OutputPer1M: 60.00},
	"openai/gpt-3.5-turbo": {InputPer1M: 0.50, OutputPer1M: 1.50},

	// Anthropic
	"anthropic/claude-3-5-sonnet-20241022": {InputPer1M: 3.00, OutputPer1M: 15.00},
	"anthropic/claude-3-5-haiku-20241022":  {InputPer1M: 0.80, OutputPer1M: 4.00},
	"anthropic/claude-3-opus-20240229":     {InputPer1M: 15.00, OutputPer1M: 75.00},
	"anthropic/claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},

	// AWS Bedrock
	"bedrock/anthropic.claude-3-5-sonnet-20241022-v2:0": {InputPer1M: 3.00, OutputPer1M: 15.00},
	"bedrock/anthropic.claude-3-haiku-20240307-v1:0":    {InputPer1M: 0.25, OutputPer1M: 1.25},
	"bedrock/meta.llama3-1-70b-instruct-v1:0":           {InputPer1M: 0.99, OutputPer1M: 0.99},
	"bedrock/meta.llama3-1-8b-instruct-v1:0":            {InputPer1M: 0.22, OutputPer1M: 0.22},
}

// RatesFor returns the per-token input/output rates in USD for a model.
// Unknown models price at zero, which also covers free local backends.
func RatesFor(provider, model string) TokenCost {
	p, ok := PricingTable[provider+"/"+model]
	if !ok {
		return TokenCost{}
	}
	return TokenCost{
		Input:  p.InputPer1M / 1_000_000,
		Output: p.OutputPer1M / 1_000_000,
	}
}

// CostFor returns the estimated USD cost for the given token counts.
// It looks up pricing by "provider/model" key and falls back to zero if
// the model is not in the pricing table.
func CostFor(provider, model string, promptTokens, completionTokens int) float64 {
	rates := RatesFor(provider, model)
	return float64(promptTokens)*rates.Input + float64(completionTokens)*rates.Output
}
