package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Record or delete sell events",
	Long: `Record a sale or delete one by id.

Recording a sale consumes the oldest available lots first (FIFO) and
fails, changing nothing, when the lots cannot cover the quantity.

Examples:
  capgains sell add AAPL 2024-06-20 5 950.00
  capgains sell rm 2`,
}

var sellAddCmd = &cobra.Command{
	Use:   "add <ticker> <YYYY-MM-DD> <count> <total-proceeds>",
	Short: "Record a sale",
	Args:  cobra.ExactArgs(4),
	RunE:  runSellAdd,
}

var sellRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a sell event by id",
	Long: `Delete a sell event by id.

The lot counters the sell consumed stay as committed; run
"capgains rebuild" afterwards to reconcile.`,
	Args: cobra.ExactArgs(1),
	RunE: runSellRm,
}

func init() {
	rootCmd.AddCommand(sellCmd)
	sellCmd.AddCommand(sellAddCmd)
	sellCmd.AddCommand(sellRmCmd)
}

func runSellAdd(cmd *cobra.Command, args []string) error {
	date, err := parseDay(args[1])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	count, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	proceeds, err := decimal.NewFromString(args[3])
	if err != nil {
		return fmt.Errorf("total proceeds: %w", err)
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

	sell, err := store.RecordSell(inst.ID, date, count, proceeds)
	if err != nil {
		return fmt.Errorf("record sell: %w", err)
	}

	fmt.Printf("✓ Sell recorded for %s: %d @ %s total (sell %d)\n",
		inst.Ticker, sell.Count, sell.TotalProceeds.StringFixed(2), sell.ID)
	return nil
}

func runSellRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("sell id: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := store.RemoveSell(id); err != nil {
		return fmt.Errorf("remove sell: %w", err)
	}

	fmt.Printf("✓ Removed sell %d\n", id)
	return nil
}
