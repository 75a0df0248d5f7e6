package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Record or delete buy lots",
	Long: `Record a purchase lot or delete one by id.

Examples:
  capgains buy add AAPL 2024-01-15 10 1750.00
  capgains buy rm 7`,
}

var buyAddCmd = &cobra.Command{
	Use:   "add <ticker> <YYYY-MM-DD> <count> <total-cost>",
	Short: "Record a purchase lot",
	Args:  cobra.ExactArgs(4),
	RunE:  runBuyAdd,
}

var buyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a buy lot by id",
	Long: `Delete a buy lot by id.

Deleting a lot that sells already drew from leaves the sibling lots'
counters as committed; run "capgains rebuild" afterwards to reconcile.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuyRm,
}

func init() {
	rootCmd.AddCommand(buyCmd)
	buyCmd.AddCommand(buyAddCmd)
	buyCmd.AddCommand(buyRmCmd)
}

func runBuyAdd(cmd *cobra.Command, args []string) error {
	date, err := parseDay(args[1])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	count, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	totalCost, err := decimal.NewFromString(args[3])
	if err != nil {
		return fmt.Errorf("total cost: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	inst, err := store.GetInstrumentByTicker(args[0])
	if err != nil {
		return err
	}

	lot, err := store.RecordBuy(inst.ID, date, count, totalCost)
	if err != nil {
		return fmt.Errorf("record buy: %w", err)
	}

	fmt.Printf("✓ Buy recorded for %s: %d @ %s total (lot %d)\n",
		inst.Ticker, lot.Count, lot.TotalCost.StringFixed(2), lot.ID)
	return nil
}

func runBuyRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("buy id: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := store.RemoveBuy(id); err != nil {
		return fmt.Errorf("remove buy: %w", err)
	}

	fmt.Printf("✓ Removed buy %d\n", id)
	return nil
}
