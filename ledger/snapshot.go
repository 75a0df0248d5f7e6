package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ewanross/capgains/pkg/id"
)

// Snapshot is the whole ledger serialized for backup or transfer. Ids are
// preserved verbatim so a restored database matches the exported one
// row for row.
type Snapshot struct {
	ID          string               `json:"id"`
	ExportedAt  time.Time            `json:"exported_at"`
	Instruments []snapshotInstrument `json:"instruments"`
	Buys        []snapshotBuy        `json:"buys"`
	Sells       []snapshotSell       `json:"sells"`
}

type snapshotInstrument struct {
	ID     int64  `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

type snapshotBuy struct {
	ID           int64  `json:"id"`
	InstrumentID int64  `json:"instrument_id"`
	Date         string `json:"date"`
	Count        int64  `json:"count"`
	TotalCost    string `json:"total_cost"`
	Remaining    int64  `json:"remaining_count"`
	RealizedGain string `json:"realized_gain"`
}

type snapshotSell struct {
	ID            int64  `json:"id"`
	InstrumentID  int64  `json:"instrument_id"`
	Date          string `json:"date"`
	Count         int64  `json:"count"`
	TotalProceeds string `json:"total_proceeds"`
}

// ExportSnapshot serializes the three collections to JSON.
func (s *Store) ExportSnapshot() ([]byte, error) {
	instruments, err := s.ListInstruments()
	if err != nil {
		return nil, err
	}
	buys, err := s.ListBuys(0)
	if err != nil {
		return nil, err
	}
	sells, err := s.ListSells(0)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{
		ID:         id.New(),
		ExportedAt: time.Now().UTC(),
	}
	for _, inst := range instruments {
		snap.Instruments = append(snap.Instruments, snapshotInstrument{
			ID:     inst.ID,
			Ticker: inst.Ticker,
			Name:   inst.Name,
		})
	}
	for _, b := range buys {
		snap.Buys = append(snap.Buys, snapshotBuy{
			ID:           b.ID,
			InstrumentID: b.InstrumentID,
			Date:         b.Date.Format(DateLayout),
			Count:        b.Count,
			TotalCost:    b.TotalCost.String(),
			Remaining:    b.Remaining,
			RealizedGain: b.RealizedGain.String(),
		})
	}
	for _, sell := range sells {
		snap.Sells = append(snap.Sells, snapshotSell{
			ID:            sell.ID,
			InstrumentID:  sell.InstrumentID,
			Date:          sell.Date.Format(DateLayout),
			Count:         sell.Count,
			TotalProceeds: sell.TotalProceeds.String(),
		})
	}

	return json.MarshalIndent(snap, "", "  ")
}

// ImportSnapshot replaces the entire ledger with the snapshot's rows in
// one transaction. The current contents are dropped only if the snapshot
// validates; a bad snapshot leaves the database untouched.
func (s *Store) ImportSnapshot(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := validateSnapshot(&snap); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"sells", "buys", "instruments"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, inst := range snap.Instruments {
		_, err := tx.Exec(`INSERT INTO instruments (id, ticker, name) VALUES (?, ?, ?)`,
			inst.ID, NormalizeTicker(inst.Ticker), inst.Name)
		if err != nil {
			return fmt.Errorf("restore instrument %d: %w", inst.ID, err)
		}
	}
	for _, b := range snap.Buys {
		_, err := tx.Exec(`
			INSERT INTO buys (id, instrument_id, date, count, total_cost, remaining_count, realized_gain)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.InstrumentID, b.Date, b.Count, b.TotalCost, b.Remaining, b.RealizedGain)
		if err != nil {
			return fmt.Errorf("restore buy %d: %w", b.ID, err)
		}
	}
	for _, sell := range snap.Sells {
		_, err := tx.Exec(`
			INSERT INTO sells (id, instrument_id, date, count, total_proceeds)
			VALUES (?, ?, ?, ?, ?)`,
			sell.ID, sell.InstrumentID, sell.Date, sell.Count, sell.TotalProceeds)
		if err != nil {
			return fmt.Errorf("restore sell %d: %w", sell.ID, err)
		}
	}

	return tx.Commit()
}

func validateSnapshot(snap *Snapshot) error {
	known := make(map[int64]bool, len(snap.Instruments))
	seen := make(map[string]bool, len(snap.Instruments))
	for _, inst := range snap.Instruments {
		ticker := NormalizeTicker(inst.Ticker)
		if ticker == "" {
			return fmt.Errorf("instrument %d has no ticker: %w", inst.ID, ErrInvalidArgument)
		}
		if seen[ticker] {
			return fmt.Errorf("snapshot repeats ticker %q: %w", ticker, ErrInvalidArgument)
		}
		seen[ticker] = true
		known[inst.ID] = true
	}

	for _, b := range snap.Buys {
		if !known[b.InstrumentID] {
			return fmt.Errorf("buy %d references unknown instrument %d: %w", b.ID, b.InstrumentID, ErrInvalidArgument)
		}
		if b.Count <= 0 || b.Remaining < 0 || b.Remaining > b.Count {
			return fmt.Errorf("buy %d has counts %d/%d out of range: %w", b.ID, b.Remaining, b.Count, ErrInvalidArgument)
		}
		if _, err := parseDate(b.Date); err != nil {
			return fmt.Errorf("buy %d: %v: %w", b.ID, err, ErrInvalidArgument)
		}
		if cost, err := parseMoney(b.TotalCost); err != nil || cost.IsNegative() {
			return fmt.Errorf("buy %d has bad cost %q: %w", b.ID, b.TotalCost, ErrInvalidArgument)
		}
		if _, err := parseMoney(b.RealizedGain); err != nil {
			return fmt.Errorf("buy %d has bad realized gain %q: %w", b.ID, b.RealizedGain, ErrInvalidArgument)
		}
	}

	for _, sell := range snap.Sells {
		if !known[sell.InstrumentID] {
			return fmt.Errorf("sell %d references unknown instrument %d: %w", sell.ID, sell.InstrumentID, ErrInvalidArgument)
		}
		if sell.Count <= 0 {
			return fmt.Errorf("sell %d has count %d: %w", sell.ID, sell.Count, ErrInvalidArgument)
		}
		if _, err := parseDate(sell.Date); err != nil {
			return fmt.Errorf("sell %d: %v: %w", sell.ID, err, ErrInvalidArgument)
		}
		if proceeds, err := parseMoney(sell.TotalProceeds); err != nil || proceeds.IsNegative() {
			return fmt.Errorf("sell %d has bad proceeds %q: %w", sell.ID, sell.TotalProceeds, ErrInvalidArgument)
		}
	}

	return nil
}
