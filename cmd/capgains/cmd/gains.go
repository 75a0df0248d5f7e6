package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ewanross/capgains/ledger"
	"github.com/ewanross/capgains/report"
)

var gainsCmd = &cobra.Command{
	Use:   "gains",
	Short: "Show the realized capital gains report",
	Long: `Compute realized gains by replaying the full buy/sell history
with FIFO matching. Shows one row per sale plus totals per fiscal year
(July 1 - June 30).

Examples:
  capgains gains
  capgains gains --ticker AAPL
  capgains gains --csv > gains.csv`,
	Args: cobra.NoArgs,
	RunE: runGains,
}

var (
	gainsTicker string
	gainsCSV    bool
)

func init() {
	rootCmd.AddCommand(gainsCmd)

	gainsCmd.Flags().StringVarP(&gainsTicker, "ticker", "t", "", "restrict the report to one ticker")
	gainsCmd.Flags().BoolVar(&gainsCSV, "csv", false, "write CSV instead of a table")
}

func runGains(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	var instrumentID int64
	if gainsTicker != "" {
		inst, err := store.GetInstrumentByTicker(gainsTicker)
		if err != nil {
			return err
		}
		instrumentID = inst.ID
	}

	records, err := store.ComputeGains(instrumentID)
	if err != nil {
		return fmt.Errorf("compute gains: %w", err)
	}

	if gainsCSV {
		return report.WriteGains(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("No capital gains to report: no sell transactions in scope.")
		return nil
	}

	fmt.Printf("%-8s %-12s %8s %12s %12s %12s\n",
		"TICKER", "SELL DATE", "COUNT", "PROCEEDS", "COST BASIS", "GAIN")
	for _, rec := range records {
		fmt.Printf("%-8s %-12s %8d %12s %12s %12s\n",
			rec.Ticker,
			rec.SellDate.Format(ledger.DateLayout),
			rec.SellCount,
			rec.SellProceeds.StringFixed(2),
			rec.CostBasis.StringFixed(2),
			rec.Gain.StringFixed(2),
		)
	}

	byYear := report.ByFiscalYear(records)
	fmt.Printf("\n%-12s %12s\n", "FISCAL YEAR", "TOTAL GAIN")
	for _, fy := range report.Years(byYear) {
		fmt.Printf("%-12s %12s\n", fy, byYear[fy].StringFixed(2))
	}

	return nil
}
