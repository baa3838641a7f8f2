package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpgen "github.com/Fato07/mcp-server-generator"
	"github.com/Fato07/mcp-server-generator/internal/cache"
	"github.com/Fato07/mcp-server-generator/providers"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "mcpgen",
		Short:   "mcpgen — LLM enhancement pipeline for generated MCP servers",
		Version: version,
	}

	root.AddCommand(
		newEnhanceCmd(),
		newEstimateCmd(),
		newServeCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRuntime builds the provider and cache store from a config file.
func loadRuntime(configPath string) (*mcpgen.Config, providers.Provider, cache.Store, error) {
	cfg, err := mcpgen.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := mcpgen.ValidateConfig(*cfg); err != nil {
		return nil, nil, nil, err
	}
	p, err := mcpgen.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := mcpgen.OpenStore(cfg.Cache)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, p, store, nil
}
