package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ewanross/capgains/report"
)

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "Show current holdings per ticker",
	Long: `Summarize every registered ticker: units purchased, units sold,
units still held, and the money totals on each side.

Examples:
  capgains holdings
  capgains holdings --csv > holdings.csv`,
	Args: cobra.NoArgs,
	RunE: runHoldings,
}

var holdingsCSV bool

func init() {
	rootCmd.AddCommand(holdingsCmd)

	holdingsCmd.Flags().BoolVar(&holdingsCSV, "csv", false, "write CSV instead of a table")
}

func runHoldings(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	instruments, err := store.ListInstruments()
	if err != nil {
		return fmt.Errorf("list instruments: %w", err)
	}
	buys, err := store.ListBuys(0)
	if err != nil {
		return fmt.Errorf("list buys: %w", err)
	}
	sells, err := store.ListSells(0)
	if err != nil {
		return fmt.Errorf("list sells: %w", err)
	}

	holdings := report.ByInstrument(instruments, buys, sells)

	if holdingsCSV {
		return report.WriteHoldings(os.Stdout, holdings)
	}

	if len(holdings) == 0 {
		fmt.Println("No instruments registered.")
		return nil
	}

	fmt.Printf("%-8s %10s %10s %10s %12s %14s\n",
		"TICKER", "PURCHASED", "SOLD", "CURRENT", "BUY COST", "SELL PROCEEDS")
	for _, ticker := range report.Tickers(holdings) {
		h := holdings[ticker]
		fmt.Printf("%-8s %10d %10d %10d %12s %14s\n",
			h.Ticker, h.Purchased, h.Sold, h.Current,
			h.BuyCost.StringFixed(2), h.SellProceeds.StringFixed(2))
	}

	return nil
}
