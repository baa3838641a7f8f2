package enhance

import "github.com/Fato07/mcp-server-generator/openapi"

const (
	// promptSplit is the share of a task's estimated tokens attributed to
	// the prompt; the remainder is attributed to the completion.
	promptSplitNum = 7
	promptSplitDen = 10

	// examplesPerOperation is the estimated completion budget for one
	// operation's worth of usage examples.
	examplesPerOperation = 120

	// maxHitProbability caps the cache-hit estimate. Even a hot cache has
	// churn from TTL expiry and catalog edits.
	maxHitProbability = 0.8
)

// FeatureEstimate is the predicted spend for a single task.
type FeatureEstimate struct {
	Feature          Feature `json:"feature"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	USD              float64 `json:"usd"`
}

// CostEstimate predicts the spend of a Run before any provider call.
type CostEstimate struct {
	Features            []FeatureEstimate `json:"features"`
	TotalUSD            float64           `json:"totalUsd"`
	CacheHitProbability float64           `json:"cacheHitProbability"`
	ExpectedUSD         float64           `json:"expectedUsd"`
}

// Estimate predicts token usage and cost for running the given features
// over a compressed document. TotalUSD assumes every task misses the cache;
// ExpectedUSD discounts it by the estimated hit probability.
func (e *Enhancer) Estimate(c *openapi.Compressed, features []Feature) CostEstimate {
	if len(features) == 0 {
		features = AllFeatures()
	}

	est := CostEstimate{Features: make([]FeatureEstimate, 0, len(features))}
	for _, feature := range features {
		fe := estimateFeature(feature, c)
		fe.USD = e.provider.EstimateCost(fe.PromptTokens, fe.CompletionTokens)
		est.Features = append(est.Features, fe)
		est.TotalUSD += fe.USD
	}

	est.CacheHitProbability = CacheHitProbability(len(c.Paths), len(features))
	est.ExpectedUSD = est.TotalUSD * (1 - est.CacheHitProbability)
	return est
}

// estimateFeature sizes one task from the compressed document alone.
// Documentation costs twice the document, examples a fixed budget per
// operation, validation half the document.
func estimateFeature(feature Feature, c *openapi.Compressed) FeatureEstimate {
	var total int
	switch feature {
	case FeatureDocumentation:
		total = 2 * c.EstimatedTokens
	case FeatureExamples:
		ops := 0
		for _, p := range c.Paths {
			ops += len(p.Operations)
		}
		if ops == 0 {
			ops = 1
		}
		total = ops * examplesPerOperation
	case FeatureValidation:
		total = c.EstimatedTokens / 2
	default:
		total = c.EstimatedTokens
	}

	prompt := total * promptSplitNum / promptSplitDen
	completion := total - prompt
	if budget := paramsFor(feature).MaxTokens; budget > 0 && completion > budget {
		completion = budget
	}
	return FeatureEstimate{
		Feature:          feature,
		PromptTokens:     prompt,
		CompletionTokens: completion,
	}
}

// CacheHitProbability estimates how likely a task is to be served from the
// shared cache. Larger catalogs and broader feature sets revisit the same
// prompts more often across runs, so both push the estimate up.
func CacheHitProbability(pathCount, featureCount int) float64 {
	p := 0.2 + 0.05*float64(featureCount) + 0.01*float64(pathCount)
	if p > maxHitProbability {
		p = maxHitProbability
	}
	return p
}
