// Package mcpgen wires the enhancement subsystem of the MCP server
// generator: configuration, provider construction, and the shared response
// cache behind the enhancement orchestrator.
package mcpgen

import (
	"time"

	"github.com/Fato07/mcp-server-generator/providers"
)

// Config holds the configuration for the enhancement subsystem.
type Config struct {
	// Provider selects and configures the LLM backend.
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	// Cache configures the shared response cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`
	// Enhance configures the orchestrator.
	Enhance EnhanceConfig `json:"enhance" yaml:"enhance"`
	// Server configures the optional HTTP surface.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
}

// ProviderConfig configures the LLM backend.
type ProviderConfig struct {
	Kind    providers.Kind `json:"kind" yaml:"kind"`
	Model   string         `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey  string         `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL string         `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Region  string         `json:"region,omitempty" yaml:"region,omitempty"`
}

// CacheBackend identifies a cache store implementation.
type CacheBackend string

// Supported cache backends.
const (
	BackendMemory   CacheBackend = "memory"
	BackendSQLite   CacheBackend = "sqlite"
	BackendPostgres CacheBackend = "postgres"
)

// CacheConfig configures the shared response cache.
type CacheConfig struct {
	Backend CacheBackend `json:"backend" yaml:"backend"`
	// DSN is the database source name for sqlite and postgres backends.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	// TTL is the entry lifetime, in Go duration syntax ("1h", "30m").
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	// Capacity bounds the memory backend's entry count.
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// EnhanceConfig configures the orchestrator.
type EnhanceConfig struct {
	// Features to run; empty means all of them.
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
	// MaxCostUSD is the pre-flight budget ceiling per run.
	MaxCostUSD float64 `json:"max_cost_usd,omitempty" yaml:"max_cost_usd,omitempty"`
	// CallTimeout bounds each provider call, in Go duration syntax.
	CallTimeout string `json:"call_timeout,omitempty" yaml:"call_timeout,omitempty"`
}

// ServerConfig configures the HTTP surface of the serve command.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultTTL        = time.Hour
	DefaultCapacity   = 1000
	DefaultMaxCostUSD = 1.00
	DefaultAddr       = ":8080"
)

// ParsedTTL returns the parsed cache TTL, falling back to DefaultTTL.
func (c CacheConfig) ParsedTTL() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return DefaultTTL
}

// ParsedCallTimeout returns the parsed call timeout; zero means none.
func (c EnhanceConfig) ParsedCallTimeout() time.Duration {
	if d, err := time.ParseDuration(c.CallTimeout); err == nil && d > 0 {
		return d
	}
	return 0
}
