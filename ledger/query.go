package ledger

import (
	"database/sql"
	"fmt"
)

// GetInstrument returns a single instrument by id.
func (s *Store) GetInstrument(id int64) (Instrument, error) {
	row := s.db.QueryRow(`SELECT id, ticker, name FROM instruments WHERE id = ?`, id)
	return scanInstrument(row, fmt.Sprintf("instrument %d", id))
}

// GetInstrumentByTicker returns a single instrument by its (normalized)
// ticker.
func (s *Store) GetInstrumentByTicker(ticker string) (Instrument, error) {
	ticker = NormalizeTicker(ticker)
	row := s.db.QueryRow(`SELECT id, ticker, name FROM instruments WHERE ticker = ?`, ticker)
	return scanInstrument(row, fmt.Sprintf("ticker %q", ticker))
}

func scanInstrument(row *sql.Row, what string) (Instrument, error) {
	var inst Instrument
	err := row.Scan(&inst.ID, &inst.Ticker, &inst.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return Instrument{}, fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return Instrument{}, err
	}
	return inst, nil
}

// ListInstruments returns every registered instrument in ticker order.
func (s *Store) ListInstruments() ([]Instrument, error) {
	rows, err := s.db.Query(`SELECT id, ticker, name FROM instruments ORDER BY ticker ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Instrument
	for rows.Next() {
		var inst Instrument
		if err := rows.Scan(&inst.ID, &inst.Ticker, &inst.Name); err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

// GetBuy returns a single buy lot by id.
func (s *Store) GetBuy(id int64) (BuyLot, error) {
	rows, err := s.db.Query(`
		SELECT id, instrument_id, date, count, total_cost, remaining_count, realized_gain
		FROM buys
		WHERE id = ?`, id)
	if err != nil {
		return BuyLot{}, err
	}
	defer rows.Close()

	lots, err := collectBuys(rows)
	if err != nil {
		return BuyLot{}, err
	}
	if len(lots) == 0 {
		return BuyLot{}, fmt.Errorf("buy %d: %w", id, ErrNotFound)
	}
	return lots[0], nil
}

// GetSell returns a single sell event by id.
func (s *Store) GetSell(id int64) (SellEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, instrument_id, date, count, total_proceeds
		FROM sells
		WHERE id = ?`, id)
	if err != nil {
		return SellEvent{}, err
	}
	defer rows.Close()

	sells, err := collectSells(rows)
	if err != nil {
		return SellEvent{}, err
	}
	if len(sells) == 0 {
		return SellEvent{}, fmt.Errorf("sell %d: %w", id, ErrNotFound)
	}
	return sells[0], nil
}

// ListBuys returns buy lots ordered by date then id, the order the
// matching engine consumes them in. A zero instrumentID lists every
// instrument's lots.
func (s *Store) ListBuys(instrumentID int64) ([]BuyLot, error) {
	query := `
		SELECT id, instrument_id, date, count, total_cost, remaining_count, realized_gain
		FROM buys`
	args := []any{}
	if instrumentID != 0 {
		query += ` WHERE instrument_id = ?`
		args = append(args, instrumentID)
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBuys(rows)
}

// ListSells returns sell events ordered by date then id. A zero
// instrumentID lists every instrument's sells.
func (s *Store) ListSells(instrumentID int64) ([]SellEvent, error) {
	query := `
		SELECT id, instrument_id, date, count, total_proceeds
		FROM sells`
	args := []any{}
	if instrumentID != 0 {
		query += ` WHERE instrument_id = ?`
		args = append(args, instrumentID)
	}
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSells(rows)
}

func collectBuys(rows *sql.Rows) ([]BuyLot, error) {
	var out []BuyLot
	for rows.Next() {
		var (
			lot  BuyLot
			date string
			cost string
			gain string
		)
		if err := rows.Scan(&lot.ID, &lot.InstrumentID, &date, &lot.Count, &cost, &lot.Remaining, &gain); err != nil {
			return nil, err
		}
		var err error
		if lot.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if lot.TotalCost, err = parseMoney(cost); err != nil {
			return nil, err
		}
		if lot.RealizedGain, err = parseMoney(gain); err != nil {
			return nil, err
		}
		out = append(out, lot)
	}
	return out, rows.Err()
}

func collectSells(rows *sql.Rows) ([]SellEvent, error) {
	var out []SellEvent
	for rows.Next() {
		var (
			sell     SellEvent
			date     string
			proceeds string
		)
		if err := rows.Scan(&sell.ID, &sell.InstrumentID, &date, &sell.Count, &proceeds); err != nil {
			return nil, err
		}
		var err error
		if sell.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if sell.TotalProceeds, err = parseMoney(proceeds); err != nil {
			return nil, err
		}
		out = append(out, sell)
	}
	return out, rows.Err()
}
