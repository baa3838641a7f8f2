package providers

import "fmt"

// Kind identifies one of the supported backend kinds. The set is closed:
// provider resolution happens once at configuration time and an unknown
// kind is a fatal configuration error.
type Kind string

// Supported backend kinds.
const (
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindBedrock   Kind = "bedrock"
	KindOllama    Kind = "ollama"
)

// ConfigError reports an invalid provider configuration. It is fatal:
// the caller must fail before issuing any generation call, and must not retry.
type ConfigError struct {
	Kind   Kind
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider config: %s: %s", e.Kind, e.Reason)
}

// Options carries the per-provider settings consumed by New.
type Options struct {
	Model   string
	APIKey  string
	BaseURL string // endpoint override; empty selects the provider default
	Region  string // bedrock only
}

// New resolves a backend kind to a concrete Provider.
// Unrecognised kinds return a *ConfigError.
func New(kind Kind, opts Options) (Provider, error) {
	switch kind {
	case KindOpenAI:
		return NewOpenAI(opts)
	case KindAnthropic:
		return NewAnthropic(opts)
	case KindBedrock:
		return NewBedrock(opts)
	case KindOllama:
		return NewOllama(opts)
	default:
		return nil, &ConfigError{Kind: kind, Reason: "unknown provider kind"}
	}
}
