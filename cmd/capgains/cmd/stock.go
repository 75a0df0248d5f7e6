package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage instruments (tickers)",
	Long: `Register, list and remove instruments.

Subcommands:
  add  - Register a new ticker
  rm   - Remove a ticker (only while it has no transactions)
  list - List registered tickers

Examples:
  capgains stock add AAPL "Apple Inc."
  capgains stock rm 3
  capgains stock list`,
}

var stockAddCmd = &cobra.Command{
	Use:   "add <ticker> <name>",
	Short: "Register a new ticker",
	Args:  cobra.ExactArgs(2),
	RunE:  runStockAdd,
}

var stockRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a ticker by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runStockRm,
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered tickers",
	Args:  cobra.NoArgs,
	RunE:  runStockList,
}

func init() {
	rootCmd.AddCommand(stockCmd)
	stockCmd.AddCommand(stockAddCmd)
	stockCmd.AddCommand(stockRmCmd)
	stockCmd.AddCommand(stockListCmd)
}

func runStockAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	inst, err := store.AddInstrument(args[0], args[1])
	if err != nil {
		return fmt.Errorf("add instrument: %w", err)
	}

	fmt.Printf("✓ Added %s (%s) with id %d\n", inst.Ticker, inst.Name, inst.ID)
	return nil
}

func runStockRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("instrument id: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := store.RemoveInstrument(id); err != nil {
		return fmt.Errorf("remove instrument: %w", err)
	}

	fmt.Printf("✓ Removed instrument %d\n", id)
	return nil
}

func runStockList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	instruments, err := store.ListInstruments()
	if err != nil {
		return fmt.Errorf("list instruments: %w", err)
	}

	if len(instruments) == 0 {
		fmt.Println("No instruments registered.")
		return nil
	}

	fmt.Printf("%-6s %-8s %s\n", "ID", "TICKER", "NAME")
	for _, inst := range instruments {
		fmt.Printf("%-6d %-8s %s\n", inst.ID, inst.Ticker, inst.Name)
	}
	return nil
}
