package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Re-derive lot counters from the full history",
	Long: `Replay every buy and sell in date order and overwrite each
lot's remaining count and realized gain with the replayed values.

Use this after deleting a buy or sell out of order, which leaves the
stored counters stale (deletions do not cascade).`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := store.RebuildLotState(); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	fmt.Println("✓ Lot counters rebuilt from history")
	return nil
}
