package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or import a full ledger snapshot",
	Long: `Move the whole ledger in or out as a JSON snapshot.

Export writes every instrument, buy lot and sell event to a single file.
Import replaces the current ledger with a snapshot's contents; the
import is all-or-nothing and a bad snapshot leaves the ledger untouched.

Examples:
  capgains snapshot export -o backup.json
  capgains snapshot import backup.json`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger to a JSON snapshot",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotExport,
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger with a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotImport,
}

var snapshotOutput string

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)

	snapshotExportCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "output file (default capgains-<date>.json)")
}

func runSnapshotExport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	data, err := store.ExportSnapshot()
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	out := snapshotOutput
	if out == "" {
		out = fmt.Sprintf("capgains-%s.json", time.Now().Format("2006-01-02"))
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	fmt.Printf("✓ Exported ledger snapshot: %s\n", out)
	return nil
}

func runSnapshotImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := store.ImportSnapshot(data); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	fmt.Printf("✓ Imported ledger snapshot: %s\n", args[0])
	return nil
}
