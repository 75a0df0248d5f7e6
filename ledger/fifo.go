package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// lotState is the matching engine's working view of a buy lot. Commit
// mode seeds remaining from the stored counter; replay mode seeds it from
// the original count so the report always reflects full history.
type lotState struct {
	id           int64
	count        int64
	remaining    int64
	totalCost    decimal.Decimal
	realizedGain decimal.Decimal
}

// draw records that a sell consumed some units of lots[index].
type draw struct {
	index    int
	consumed int64
}

// allocate walks lots oldest-first (callers supply them ordered by date,
// id) and consumes up to need units, decrementing each lot's remaining.
// It returns one draw per touched lot and the quantity it could not
// cover.
func allocate(lots []lotState, need int64) ([]draw, int64) {
	var draws []draw
	for i := range lots {
		if need <= 0 {
			break
		}
		if lots[i].remaining <= 0 {
			continue
		}
		consumed := min(lots[i].remaining, need)
		draws = append(draws, draw{index: i, consumed: consumed})
		lots[i].remaining -= consumed
		need -= consumed
	}
	return draws, need
}

// unitPrice is the per-unit price of a whole position: total amount over
// the original count. A partially consumed lot keeps its original unit
// price.
func unitPrice(total decimal.Decimal, count int64) decimal.Decimal {
	return total.Div(decimal.NewFromInt(count))
}

// RecordSell matches a new sell against the instrument's lots with the
// FIFO discipline and persists the whole thing as one transaction: every
// lot update and the sell row commit together or not at all. It fails
// with InsufficientInventoryError, and persists nothing, when the lots
// cannot cover the quantity.
func (s *Store) RecordSell(instrumentID int64, date time.Time, count int64, totalProceeds decimal.Decimal) (SellEvent, error) {
	if count <= 0 {
		return SellEvent{}, fmt.Errorf("sell count must be positive, got %d: %w", count, ErrInvalidArgument)
	}
	if totalProceeds.IsNegative() {
		return SellEvent{}, fmt.Errorf("sell proceeds must not be negative, got %s: %w", totalProceeds, ErrInvalidArgument)
	}
	if date.IsZero() {
		return SellEvent{}, fmt.Errorf("sell date is required: %w", ErrInvalidArgument)
	}
	if _, err := s.GetInstrument(instrumentID); err != nil {
		return SellEvent{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SellEvent{}, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id, count, remaining_count, total_cost, realized_gain
		FROM buys
		WHERE instrument_id = ? AND remaining_count > 0
		ORDER BY date ASC, id ASC`, instrumentID)
	if err != nil {
		return SellEvent{}, err
	}

	var (
		lots      []lotState
		available int64
	)
	for rows.Next() {
		var (
			lot  lotState
			cost string
			gain string
		)
		if err := rows.Scan(&lot.id, &lot.count, &lot.remaining, &cost, &gain); err != nil {
			rows.Close()
			return SellEvent{}, err
		}
		if lot.totalCost, err = parseMoney(cost); err != nil {
			rows.Close()
			return SellEvent{}, err
		}
		if lot.realizedGain, err = parseMoney(gain); err != nil {
			rows.Close()
			return SellEvent{}, err
		}
		available += lot.remaining
		lots = append(lots, lot)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return SellEvent{}, err
	}
	rows.Close()

	if available < count {
		return SellEvent{}, &InsufficientInventoryError{Requested: count, Available: available}
	}

	draws, _ := allocate(lots, count)
	unitSell := unitPrice(totalProceeds, count)

	for _, d := range draws {
		lot := lots[d.index]
		unitBuy := unitPrice(lot.totalCost, lot.count)
		gainFromLot := unitSell.Sub(unitBuy).Mul(decimal.NewFromInt(d.consumed))

		_, err := tx.Exec(`UPDATE buys SET remaining_count = ?, realized_gain = ? WHERE id = ?`,
			lot.remaining, lot.realizedGain.Add(gainFromLot).String(), lot.id)
		if err != nil {
			return SellEvent{}, fmt.Errorf("update lot %d: %w", lot.id, err)
		}
	}

	res, err := tx.Exec(`
		INSERT INTO sells (instrument_id, date, count, total_proceeds)
		VALUES (?, ?, ?, ?)`,
		instrumentID, date.Format(DateLayout), count, totalProceeds.String(),
	)
	if err != nil {
		return SellEvent{}, fmt.Errorf("insert sell: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return SellEvent{}, err
	}

	if err := tx.Commit(); err != nil {
		return SellEvent{}, err
	}

	return SellEvent{
		ID:            id,
		InstrumentID:  instrumentID,
		Date:          date,
		Count:         count,
		TotalProceeds: totalProceeds,
	}, nil
}

// ComputeGains replays the full buy/sell history and returns one
// GainRecord per sell. It never touches stored lot counters: the replay
// seeds every lot from its original count, so the report reflects the
// complete historical allocation no matter what has been committed or
// deleted since. A zero instrumentID reports every instrument.
//
// Unlike RecordSell, the replay does not fail on missing inventory; a
// sell simply matches whatever the lots can cover.
func (s *Store) ComputeGains(instrumentID int64) ([]GainRecord, error) {
	if instrumentID != 0 {
		if _, err := s.GetInstrument(instrumentID); err != nil {
			return nil, err
		}
	}

	instruments, err := s.ListInstruments()
	if err != nil {
		return nil, err
	}
	tickers := make(map[int64]string, len(instruments))
	for _, inst := range instruments {
		tickers[inst.ID] = inst.Ticker
	}

	buys, err := s.ListBuys(instrumentID)
	if err != nil {
		return nil, err
	}
	sells, err := s.ListSells(instrumentID)
	if err != nil {
		return nil, err
	}

	// Per-instrument working sets, already in (date, id) order.
	lots := make(map[int64][]lotState)
	for _, b := range buys {
		lots[b.InstrumentID] = append(lots[b.InstrumentID], lotState{
			id:        b.ID,
			count:     b.Count,
			remaining: b.Count,
			totalCost: b.TotalCost,
		})
	}

	var records []GainRecord
	for _, sell := range sells {
		draws, _ := allocate(lots[sell.InstrumentID], sell.Count)

		costBasis := decimal.Zero
		for _, d := range draws {
			lot := lots[sell.InstrumentID][d.index]
			costBasis = costBasis.Add(unitPrice(lot.totalCost, lot.count).Mul(decimal.NewFromInt(d.consumed)))
		}
		gain := sell.TotalProceeds.Sub(costBasis)

		ticker := tickers[sell.InstrumentID]
		if ticker == "" {
			ticker = fmt.Sprintf("#%d", sell.InstrumentID)
		}

		records = append(records, GainRecord{
			SellID:       sell.ID,
			Ticker:       ticker,
			SellDate:     sell.Date,
			SellCount:    sell.Count,
			SellProceeds: sell.TotalProceeds,
			CostBasis:    costBasis.Round(2),
			Gain:         gain.Round(2),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Ticker != records[j].Ticker {
			return records[i].Ticker < records[j].Ticker
		}
		if !records[i].SellDate.Equal(records[j].SellDate) {
			return records[i].SellDate.Before(records[j].SellDate)
		}
		return records[i].SellID < records[j].SellID
	})

	return records, nil
}

// RebuildLotState re-derives every lot's remaining count and realized
// gain by replaying the full history, overwriting the stored counters.
// Deleting a buy or sell does not cascade, so the counters go stale after
// out-of-order deletions; this reconciles them in one transaction.
func (s *Store) RebuildLotState() error {
	buys, err := s.ListBuys(0)
	if err != nil {
		return err
	}
	sells, err := s.ListSells(0)
	if err != nil {
		return err
	}

	lots := make(map[int64][]lotState)
	for _, b := range buys {
		lots[b.InstrumentID] = append(lots[b.InstrumentID], lotState{
			id:        b.ID,
			count:     b.Count,
			remaining: b.Count,
			totalCost: b.TotalCost,
		})
	}

	for _, sell := range sells {
		set := lots[sell.InstrumentID]
		draws, _ := allocate(set, sell.Count)
		unitSell := unitPrice(sell.TotalProceeds, sell.Count)

		for _, d := range draws {
			lot := &set[d.index]
			unitBuy := unitPrice(lot.totalCost, lot.count)
			lot.realizedGain = lot.realizedGain.Add(unitSell.Sub(unitBuy).Mul(decimal.NewFromInt(d.consumed)))
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, set := range lots {
		for _, lot := range set {
			_, err := tx.Exec(`UPDATE buys SET remaining_count = ?, realized_gain = ? WHERE id = ?`,
				lot.remaining, lot.realizedGain.String(), lot.id)
			if err != nil {
				return fmt.Errorf("rebuild lot %d: %w", lot.id, err)
			}
		}
	}

	return tx.Commit()
}
