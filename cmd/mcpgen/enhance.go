package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpgen "github.com/Fato07/mcp-server-generator"
	"github.com/Fato07/mcp-server-generator/openapi"
)

func newEnhanceCmd() *cobra.Command {
	var (
		configPath   string
		specPath     string
		maxTokens    int
		operationIDs []string
	)

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Run enhancement tasks against an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, store, err := loadRuntime(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			compressed, err := loadCompressed(specPath, operationIDs, maxTokens)
			if err != nil {
				return err
			}

			features, err := mcpgen.Features(cfg.Enhance)
			if err != nil {
				return err
			}

			e := mcpgen.NewEnhancer(p, store, *cfg)
			result, err := e.Run(cmd.Context(), compressed, features)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "mcpgen.yaml", "path to config file")
	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "path to the OpenAPI document (json or yaml)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "token budget for the compressed spec (0 = unbounded)")
	cmd.Flags().StringSliceVar(&operationIDs, "operations", nil, "restrict to these operation ids")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

// loadCompressed parses, minifies, and optionally budget-optimizes a spec.
func loadCompressed(path string, operationIDs []string, maxTokens int) (*openapi.Compressed, error) {
	doc, err := openapi.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading spec: %w", err)
	}

	var compressed *openapi.Compressed
	if len(operationIDs) > 0 {
		compressed = openapi.MinifyForOperations(doc, operationIDs)
	} else {
		compressed = openapi.Minify(doc)
	}
	if maxTokens > 0 {
		compressed = openapi.OptimizeForTokenLimit(compressed, maxTokens)
	}
	return compressed, nil
}
