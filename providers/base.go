package providers

// Base provides common fields and methods shared by provider
// implementations. Embed this struct to avoid repeating name, apiKey,
// baseURL, and model handling across providers.
type Base struct {
	name    string
	apiKey  string
	baseURL string
	model   string
}

// Name returns the provider name.
func (b *Base) Name() string { return b.name }

// BaseURL returns the provider base URL.
func (b *Base) BaseURL() string { return b.baseURL }

// Model returns the model the provider was configured with.
func (b *Base) Model() string { return b.model }

// EstimateCost computes promptTokens·inputRate + completionTokens·outputRate
// using the pricing table entry for the configured model.
func (b *Base) EstimateCost(promptTokens, completionTokens int) float64 {
	return CostFor(b.name, b.model, promptTokens, completionTokens)
}
