// Package enhance runs enhancement tasks against a compressed API
// description: each task builds a prompt, consults the response cache, and
// only on a miss spends money on a provider call. Task failures are isolated;
// a deterministic template substitute stands in for any task that fails.
package enhance

import "fmt"

// Feature identifies one enhancement task.
type Feature string

// Supported enhancement features.
const (
	FeatureDocumentation Feature = "documentation"
	FeatureExamples      Feature = "examples"
	FeatureValidation    Feature = "validation"
)

// AllFeatures lists every supported feature in run order.
func AllFeatures() []Feature {
	return []Feature{FeatureDocumentation, FeatureExamples, FeatureValidation}
}

// ParseFeature converts a config/CLI string into a Feature.
func ParseFeature(s string) (Feature, error) {
	switch Feature(s) {
	case FeatureDocumentation, FeatureExamples, FeatureValidation:
		return Feature(s), nil
	default:
		return "", fmt.Errorf("unknown enhancement feature: %q", s)
	}
}
