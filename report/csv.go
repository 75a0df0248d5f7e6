package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ewanross/capgains/ledger"
)

// WriteGains renders gain records as CSV, one row per sell, in the order
// the engine produced them.
func WriteGains(w io.Writer, records []ledger.GainRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ticker", "sell_date", "count", "proceeds", "cost_basis", "gain"}); err != nil {
		return err
	}
	for _, rec := range records {
		cw.Write([]string{
			rec.Ticker,
			rec.SellDate.Format(ledger.DateLayout),
			strconv.FormatInt(rec.SellCount, 10),
			rec.SellProceeds.StringFixed(2),
			rec.CostBasis.StringFixed(2),
			rec.Gain.StringFixed(2),
		})
	}

	cw.Flush()
	return cw.Error()
}

// WriteHoldings renders per-instrument holdings as CSV in ticker order.
func WriteHoldings(w io.Writer, holdings map[string]Holding) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"ticker", "purchased", "sold", "current", "buy_cost", "sell_proceeds"}); err != nil {
		return err
	}
	for _, ticker := range Tickers(holdings) {
		h := holdings[ticker]
		cw.Write([]string{
			h.Ticker,
			strconv.FormatInt(h.Purchased, 10),
			strconv.FormatInt(h.Sold, 10),
			strconv.FormatInt(h.Current, 10),
			h.BuyCost.StringFixed(2),
			h.SellProceeds.StringFixed(2),
		})
	}

	cw.Flush()
	return cw.Error()
}
