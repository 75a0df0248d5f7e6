package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ewanross/capgains/ledger"
	"github.com/ewanross/capgains/report"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Browse recorded transactions",
	Long: `List buy and sell transactions with their row ids.

The listing shows the ids that "buy rm" and "sell rm" take.

Examples:
  capgains tx list
  capgains tx list --ticker AAPL`,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all transactions, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runTxList,
}

var txTicker string

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txListCmd)

	txListCmd.Flags().StringVarP(&txTicker, "ticker", "t", "", "restrict the listing to one ticker")
}

func runTxList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	var instrumentID int64
	if txTicker != "" {
		inst, err := store.GetInstrumentByTicker(txTicker)
		if err != nil {
			return err
		}
		instrumentID = inst.ID
	}

	instruments, err := store.ListInstruments()
	if err != nil {
		return fmt.Errorf("list instruments: %w", err)
	}
	buys, err := store.ListBuys(instrumentID)
	if err != nil {
		return fmt.Errorf("list buys: %w", err)
	}
	sells, err := store.ListSells(instrumentID)
	if err != nil {
		return fmt.Errorf("list sells: %w", err)
	}

	txs := report.Transactions(instruments, buys, sells)
	if len(txs) == 0 {
		fmt.Println("No transactions recorded.")
		return nil
	}

	fmt.Printf("%-6s %-5s %-8s %-12s %8s %12s\n",
		"ID", "TYPE", "TICKER", "DATE", "COUNT", "AMOUNT")
	for _, tx := range txs {
		fmt.Printf("%-6d %-5s %-8s %-12s %8d %12s\n",
			tx.ID, tx.Kind, tx.Ticker,
			tx.Date.Format(ledger.DateLayout),
			tx.Count, tx.Amount.StringFixed(2))
	}

	return nil
}
