package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ewanross/capgains/ledger"
)

var rootCmd = &cobra.Command{
	Use:   "capgains",
	Short: "Track stock lots and compute FIFO capital gains",
	Long: `Capgains is a single-user capital gains tracker.

It keeps a ledger of stock purchases and sales in a local SQLite
database and computes realized gains by matching each sale against the
oldest still-available purchase lots (FIFO):

  - Register instruments and record buy/sell transactions
  - Per-sale capital gains report with FIFO cost basis
  - Gains grouped by fiscal year (July 1 - June 30)
  - Current holdings summary per ticker
  - JSON snapshot export/import of the whole ledger`,
}

var dbPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./capgains.sqlite", "path to the ledger SQLite database")
}

// openStore opens the ledger database named by the persistent --db flag.
func openStore() (*ledger.Store, error) {
	return ledger.NewSQLite(dbPath)
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(ledger.DateLayout, s)
}
