package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument is a tradeable security identified by its ticker.
// Tickers are stored normalized (trimmed, upper-cased).
type Instrument struct {
	ID     int64
	Ticker string
	Name   string
}

// BuyLot is a single purchase of Count units, tracked individually so
// sells can consume it oldest-first. Remaining starts at Count and only
// ever decreases; RealizedGain accumulates the gain attributed to this
// lot across every sell that drew from it.
type BuyLot struct {
	ID           int64
	InstrumentID int64
	Date         time.Time
	Count        int64
	TotalCost    decimal.Decimal
	Remaining    int64
	RealizedGain decimal.Decimal
}

// SellEvent is a single sale of Count units for TotalProceeds.
type SellEvent struct {
	ID            int64
	InstrumentID  int64
	Date          time.Time
	Count         int64
	TotalProceeds decimal.Decimal
}

// GainRecord is one row of the capital gains report: a sell matched
// against its FIFO cost basis. Derived on every report run, never stored.
// CostBasis and Gain are rounded to 2 decimal places.
type GainRecord struct {
	SellID        int64
	Ticker        string
	SellDate      time.Time
	SellCount     int64
	SellProceeds  decimal.Decimal
	CostBasis     decimal.Decimal
	Gain          decimal.Decimal
}
