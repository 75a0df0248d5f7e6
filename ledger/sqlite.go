package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used in the database and on the
// CLI. Lots and sells carry dates, not timestamps.
const DateLayout = "2006-01-02"

// Store owns the ledger database: the instrument, buy lot and sell event
// collections. All entity lifecycle goes through it; the matching engine
// only reads (and, at sell time, updates lot counters inside the store's
// own transaction).
type Store struct {
	db *sql.DB
}

func NewSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NormalizeTicker trims and upper-cases a ticker. Uniqueness is enforced
// on the normalized form, so "aapl " and "AAPL" are the same instrument.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// AddInstrument registers a new ticker. It fails with ErrDuplicateKey if
// the normalized ticker is already registered.
func (s *Store) AddInstrument(ticker, name string) (Instrument, error) {
	ticker = NormalizeTicker(ticker)
	name = strings.TrimSpace(name)
	if ticker == "" || name == "" {
		return Instrument{}, fmt.Errorf("ticker and name are required: %w", ErrInvalidArgument)
	}

	_, err := s.GetInstrumentByTicker(ticker)
	if err == nil {
		return Instrument{}, fmt.Errorf("ticker %q: %w", ticker, ErrDuplicateKey)
	}
	if !errors.Is(err, ErrNotFound) {
		return Instrument{}, fmt.Errorf("check ticker %q: %w", ticker, err)
	}

	res, err := s.db.Exec(`INSERT INTO instruments (ticker, name) VALUES (?, ?)`, ticker, name)
	if err != nil {
		return Instrument{}, fmt.Errorf("insert instrument: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Instrument{}, err
	}

	return Instrument{ID: id, Ticker: ticker, Name: name}, nil
}

// RemoveInstrument deletes an instrument. It refuses with
// ErrReferentialIntegrity while any buy or sell still references it.
func (s *Store) RemoveInstrument(id int64) error {
	if _, err := s.GetInstrument(id); err != nil {
		return err
	}

	var refs int64
	err := s.db.QueryRow(`
		SELECT (SELECT COUNT(*) FROM buys WHERE instrument_id = ?)
		     + (SELECT COUNT(*) FROM sells WHERE instrument_id = ?)`, id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("instrument %d has %d transactions: %w", id, refs, ErrReferentialIntegrity)
	}

	_, err = s.db.Exec(`DELETE FROM instruments WHERE id = ?`, id)
	return err
}

// RecordBuy inserts a new lot with its full count still remaining and no
// realized gain.
func (s *Store) RecordBuy(instrumentID int64, date time.Time, count int64, totalCost decimal.Decimal) (BuyLot, error) {
	if count <= 0 {
		return BuyLot{}, fmt.Errorf("buy count must be positive, got %d: %w", count, ErrInvalidArgument)
	}
	if totalCost.IsNegative() {
		return BuyLot{}, fmt.Errorf("buy cost must not be negative, got %s: %w", totalCost, ErrInvalidArgument)
	}
	if date.IsZero() {
		return BuyLot{}, fmt.Errorf("buy date is required: %w", ErrInvalidArgument)
	}
	if _, err := s.GetInstrument(instrumentID); err != nil {
		return BuyLot{}, err
	}

	res, err := s.db.Exec(`
		INSERT INTO buys (instrument_id, date, count, total_cost, remaining_count, realized_gain)
		VALUES (?, ?, ?, ?, ?, ?)`,
		instrumentID, date.Format(DateLayout), count, totalCost.String(), count, decimal.Zero.String(),
	)
	if err != nil {
		return BuyLot{}, fmt.Errorf("insert buy: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return BuyLot{}, err
	}

	return BuyLot{
		ID:           id,
		InstrumentID: instrumentID,
		Date:         date,
		Count:        count,
		TotalCost:    totalCost,
		Remaining:    count,
		RealizedGain: decimal.Zero,
	}, nil
}

// RemoveBuy deletes a lot by id. Sibling lots are not re-derived; run
// RebuildLotState after deleting history out of order.
func (s *Store) RemoveBuy(id int64) error {
	return s.deleteByID("buys", id)
}

// RemoveSell deletes a sell event by id. Lot counters consumed by the
// sell are left as committed; run RebuildLotState to reconcile.
func (s *Store) RemoveSell(id int64) error {
	return s.deleteByID("sells", id)
}

func (s *Store) deleteByID(table string, id int64) error {
	res, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s row %d: %w", table, id, ErrNotFound)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
