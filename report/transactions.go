package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ewanross/capgains/ledger"
)

// Transaction kinds in the combined listing.
const (
	KindBuy  = "buy"
	KindSell = "sell"
)

// Transaction is one row of the transaction report: a buy lot or sell
// event flattened to a common shape. The ID is the row id in its own
// table, which is what the delete-by-id operations take.
type Transaction struct {
	ID     int64
	Kind   string
	Ticker string
	Date   time.Time
	Count  int64
	Amount decimal.Decimal
}

// Transactions merges buys and sells into one listing ordered by date,
// with buys before sells on the same day and ids breaking remaining
// ties. Rows referencing an instrument not in the list are skipped.
func Transactions(instruments []ledger.Instrument, buys []ledger.BuyLot, sells []ledger.SellEvent) []Transaction {
	tickers := make(map[int64]string, len(instruments))
	for _, inst := range instruments {
		tickers[inst.ID] = inst.Ticker
	}

	out := make([]Transaction, 0, len(buys)+len(sells))
	for _, b := range buys {
		ticker, ok := tickers[b.InstrumentID]
		if !ok {
			continue
		}
		out = append(out, Transaction{
			ID:     b.ID,
			Kind:   KindBuy,
			Ticker: ticker,
			Date:   b.Date,
			Count:  b.Count,
			Amount: b.TotalCost,
		})
	}
	for _, s := range sells {
		ticker, ok := tickers[s.InstrumentID]
		if !ok {
			continue
		}
		out = append(out, Transaction{
			ID:     s.ID,
			Kind:   KindSell,
			Ticker: ticker,
			Date:   s.Date,
			Count:  s.Count,
			Amount: s.TotalProceeds,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == KindBuy
		}
		return out[i].ID < out[j].ID
	})

	return out
}
