package mcpgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Fato07/mcp-server-generator/enhance"
	"github.com/Fato07/mcp-server-generator/providers"
)

// LoadConfig reads and parses a config file from the given path.
// Supported formats: JSON (.json), YAML (.yaml, .yml). Defaults and
// environment credentials are applied after parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q: use .json, .yaml, or .yml", ext)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills omitted fields and resolves credentials from the
// environment. A key written in the config file always wins over the
// environment.
func ApplyDefaults(cfg *Config) {
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendMemory
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = DefaultTTL.String()
	}
	if cfg.Cache.Capacity <= 0 {
		cfg.Cache.Capacity = DefaultCapacity
	}
	if cfg.Enhance.MaxCostUSD <= 0 {
		cfg.Enhance.MaxCostUSD = DefaultMaxCostUSD
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}

	if cfg.Provider.APIKey == "" {
		switch cfg.Provider.Kind {
		case providers.KindOpenAI:
			cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
		case providers.KindAnthropic:
			cfg.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = os.Getenv("MCPGEN_CACHE_DSN")
	}
}

// ValidateConfig validates a Config for correctness.
func ValidateConfig(cfg Config) error {
	switch cfg.Provider.Kind {
	case providers.KindOpenAI, providers.KindAnthropic, providers.KindBedrock, providers.KindOllama:
	case "":
		return fmt.Errorf("provider kind is required")
	default:
		return fmt.Errorf("unknown provider kind: %q", cfg.Provider.Kind)
	}

	switch cfg.Cache.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown cache backend: %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == BackendPostgres && cfg.Cache.DSN == "" {
		return fmt.Errorf("postgres cache backend requires a dsn")
	}
	if cfg.Cache.TTL != "" {
		if _, err := time.ParseDuration(cfg.Cache.TTL); err != nil {
			return fmt.Errorf("invalid cache ttl %q: %w", cfg.Cache.TTL, err)
		}
	}
	if cfg.Enhance.CallTimeout != "" {
		if _, err := time.ParseDuration(cfg.Enhance.CallTimeout); err != nil {
			return fmt.Errorf("invalid call timeout %q: %w", cfg.Enhance.CallTimeout, err)
		}
	}
	for _, f := range cfg.Enhance.Features {
		if _, err := enhance.ParseFeature(f); err != nil {
			return err
		}
	}
	return nil
}
