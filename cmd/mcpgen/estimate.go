package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mcpgen "github.com/Fato07/mcp-server-generator"
)

func newEstimateCmd() *cobra.Command {
	var (
		configPath string
		specPath   string
		maxTokens  int
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of an enhancement run without calling a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, store, err := loadRuntime(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			compressed, err := loadCompressed(specPath, nil, maxTokens)
			if err != nil {
				return err
			}
			features, err := mcpgen.Features(cfg.Enhance)
			if err != nil {
				return err
			}

			est := mcpgen.NewEnhancer(p, store, *cfg).Estimate(compressed, features)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FEATURE\tPROMPT\tCOMPLETION\tUSD")
			for _, fe := range est.Features {
				fmt.Fprintf(w, "%s\t%d\t%d\t$%.6f\n", fe.Feature, fe.PromptTokens, fe.CompletionTokens, fe.USD)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nTotal:    $%.6f\nExpected: $%.6f (cache hit probability %.0f%%)\n",
				est.TotalUSD, est.ExpectedUSD, est.CacheHitProbability*100)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "mcpgen.yaml", "path to config file")
	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "path to the OpenAPI document (json or yaml)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "token budget for the compressed spec (0 = unbounded)")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}
