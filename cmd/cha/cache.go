package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cha/internal/manifest"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the decoded manifest cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := manifest.OpenDiskCache("cha")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "manifest cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}
