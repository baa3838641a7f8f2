package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the shared response cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, store, err := loadRuntime(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats := store.Stats()
			fmt.Printf("Requests:  %d\nHits:      %d\nMisses:    %d\nHit rate:  %.1f%%\nSavings:   $%.6f\nStorage:   %d bytes\n",
				stats.TotalRequests, stats.Hits, stats.Misses, stats.HitRate*100, stats.CostSavings, stats.StorageUsed)
			return nil
		},
	}

	var pattern string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, store, err := loadRuntime(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(cmd.Context(), pattern); err != nil {
				return err
			}
			fmt.Println("Cache entries cleared.")
			return nil
		},
	}
	clearCmd.Flags().StringVar(&pattern, "pattern", "", "only clear keys with this prefix (default: all)")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mcpgen.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
