package mcpgen

import (
	"fmt"
	"time"

	"github.com/Fato07/mcp-server-generator/enhance"
	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/providers"
)

// memorySweepEvery is the janitor interval for the in-process cache.
const memorySweepEvery = time.Minute

// NewProvider constructs the configured LLM backend.
func NewProvider(cfg ProviderConfig) (providers.Provider, error) {
	return providers.New(cfg.Kind, providers.Options{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Region:  cfg.Region,
	})
}

// OpenStore constructs the configured cache store. The caller owns the
// returned store and must Close it.
func OpenStore(cfg CacheConfig) (cache.Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return cache.NewMemory(cfg.Capacity, memorySweepEvery), nil
	case BackendSQLite:
		return cache.NewSQLite(cfg.DSN)
	case BackendPostgres:
		return cache.NewPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// NewEnhancer wires provider, store, and orchestrator options from config.
func NewEnhancer(p providers.Provider, store cache.Store, cfg Config) *enhance.Enhancer {
	return enhance.New(p, store, enhance.Options{
		TTL:         cfg.Cache.ParsedTTL(),
		MaxCostUSD:  cfg.Enhance.MaxCostUSD,
		CallTimeout: cfg.Enhance.ParsedCallTimeout(),
	})
}

// Features converts the configured feature names; empty input selects every
// feature.
func Features(cfg EnhanceConfig) ([]enhance.Feature, error) {
	if len(cfg.Features) == 0 {
		return enhance.AllFeatures(), nil
	}
	out := make([]enhance.Feature, 0, len(cfg.Features))
	for _, name := range cfg.Features {
		f, err := enhance.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
