// Package report turns the matching engine's output and the raw ledger
// collections into summary tables. Everything here is a pure transform;
// no state is kept or persisted.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ewanross/capgains/ledger"
)

// FiscalYear labels the 12-month accounting period containing t. The
// year runs July 1 through June 30: a date on or after July 1 of year Y
// belongs to "Y-(Y+1)", anything earlier to "(Y-1)-Y".
func FiscalYear(t time.Time) string {
	y := t.Year()
	if t.Month() >= time.July {
		return fmt.Sprintf("%d-%d", y, y+1)
	}
	return fmt.Sprintf("%d-%d", y-1, y)
}

// ByFiscalYear sums gains per fiscal year of the sell date.
func ByFiscalYear(records []ledger.GainRecord) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, rec := range records {
		fy := FiscalYear(rec.SellDate)
		out[fy] = out[fy].Add(rec.Gain)
	}
	return out
}

// Years returns the fiscal-year labels of m in ascending order.
func Years(m map[string]decimal.Decimal) []string {
	years := make([]string, 0, len(m))
	for fy := range m {
		years = append(years, fy)
	}
	sort.Strings(years)
	return years
}

// Holding summarizes an instrument's position from raw buys and sells,
// independent of the gain computation.
type Holding struct {
	Ticker       string
	Purchased    int64
	Sold         int64
	Current      int64
	BuyCost      decimal.Decimal
	SellProceeds decimal.Decimal
}

// ByInstrument scans the buy and sell collections once and totals them
// per ticker. Every registered instrument gets an entry, including ones
// with no transactions yet.
func ByInstrument(instruments []ledger.Instrument, buys []ledger.BuyLot, sells []ledger.SellEvent) map[string]Holding {
	tickers := make(map[int64]string, len(instruments))
	out := make(map[string]Holding, len(instruments))
	for _, inst := range instruments {
		tickers[inst.ID] = inst.Ticker
		out[inst.Ticker] = Holding{Ticker: inst.Ticker}
	}

	for _, b := range buys {
		ticker, ok := tickers[b.InstrumentID]
		if !ok {
			continue
		}
		h := out[ticker]
		h.Purchased += b.Count
		h.BuyCost = h.BuyCost.Add(b.TotalCost)
		out[ticker] = h
	}

	for _, s := range sells {
		ticker, ok := tickers[s.InstrumentID]
		if !ok {
			continue
		}
		h := out[ticker]
		h.Sold += s.Count
		h.SellProceeds = h.SellProceeds.Add(s.TotalProceeds)
		out[ticker] = h
	}

	for ticker, h := range out {
		h.Current = h.Purchased - h.Sold
		out[ticker] = h
	}

	return out
}

// Tickers returns the ticker keys of m in ascending order.
func Tickers(m map[string]Holding) []string {
	tickers := make([]string, 0, len(m))
	for t := range m {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
