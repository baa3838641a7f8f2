package enhance

import (
	"encoding/json"
	"fmt"

	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/openapi"
)

// Per-task completion budgets in tokens.
const (
	docsMaxTokens       = 2048
	examplesMaxTokens   = 1024
	validationMaxTokens = 512
)

// taskTemperature keeps generated artifacts close to the source material.
var taskTemperature = 0.3

// buildPrompt renders the task-specific prompt for a compressed document.
// The compressed document is embedded as JSON so the prompt is a pure
// function of its content.
func buildPrompt(feature Feature, c *openapi.Compressed) string {
	spec, _ := json.Marshal(c)

	switch feature {
	case FeatureDocumentation:
		return fmt.Sprintf(
			"Write developer documentation in markdown for the MCP server generated from this API. "+
				"Cover each tool, its parameters, and typical responses.\n\nAPI summary:\n%s", spec)
	case FeatureExamples:
		return fmt.Sprintf(
			"Write concrete usage examples for each operation of the MCP server generated from this API. "+
				"Prefer short, copy-pastable snippets.\n\nAPI summary:\n%s", spec)
	case FeatureValidation:
		return fmt.Sprintf(
			"Review this API summary for schema problems: missing types, contradictory required fields, "+
				"suspicious enums. Respond with a short markdown report.\n\nAPI summary:\n%s", spec)
	default:
		return fmt.Sprintf("Describe this API.\n\n%s", spec)
	}
}

// paramsFor returns the sampling parameters used for a feature. These feed
// both the provider request and the cache key, so identical settings share
// cache entries.
func paramsFor(feature Feature) cache.Params {
	p := cache.Params{Temperature: &taskTemperature}
	switch feature {
	case FeatureDocumentation:
		p.MaxTokens = docsMaxTokens
	case FeatureExamples:
		p.MaxTokens = examplesMaxTokens
	case FeatureValidation:
		p.MaxTokens = validationMaxTokens
	}
	return p
}
