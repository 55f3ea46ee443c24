package clickhouse

import (
	"context"
	"fmt"
	"time"

	"pump-launchpad/internal/domain"
)

// TradeHistoryStore mirrors settled trades into ClickHouse for analytics.
// Unlike the PostgreSQL trade_records table this store is a sink: rows
// are inserted in bulk and queried by market, trader or time range.
type TradeHistoryStore struct {
	conn *Conn
}

// NewTradeHistoryStore creates a new TradeHistoryStore.
func NewTradeHistoryStore(conn *Conn) *TradeHistoryStore {
	return &TradeHistoryStore{conn: conn}
}

// Insert adds a single trade. Duplicate trade ids are not rejected:
// MergeTree doesn't enforce uniqueness and the authoritative record
// lives in PostgreSQL.
func (s *TradeHistoryStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	return s.InsertBulk(ctx, []*domain.TradeRecord{t})
}

// RecordTrade satisfies the executor's Recorder hook by delegating to Insert.
func (s *TradeHistoryStore) RecordTrade(ctx context.Context, t *domain.TradeRecord) error {
	return s.Insert(ctx, t)
}

// InsertBulk adds multiple trades in one batch.
func (s *TradeHistoryStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) (err error) {
	defer observeQuery("trade_history_insert", time.Now(), &err)

	if len(trades) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_history (
			trade_id, market_id, mint, trader, direction,
			amount_in, amount_out,
			new_price, new_supply, new_capitalization, price_impact_bps,
			fee_amount, tax_amount, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		err = batch.Append(
			t.TradeID, t.MarketID, t.Mint, t.Trader, string(t.Direction),
			t.AmountIn, t.AmountOut,
			t.NewPrice, t.NewSupply, t.NewCapitalization, t.PriceImpactBps,
			t.FeeAmount, t.TaxAmount, uint64(t.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMarketID retrieves all trades for a market, ordered by timestamp ASC.
func (s *TradeHistoryStore) GetByMarketID(ctx context.Context, marketID string) (_ []*domain.TradeRecord, err error) {
	defer observeQuery("trade_history_get_by_market", time.Now(), &err)

	query := `
		SELECT trade_id, market_id, mint, trader, direction,
		       amount_in, amount_out,
		       new_price, new_supply, new_capitalization, price_impact_bps,
		       fee_amount, tax_amount, timestamp_ms
		FROM trade_history
		WHERE market_id = ?
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("query by market id: %w", err)
	}
	defer rows.Close()

	return scanTradeHistory(rows)
}

// GetByTrader retrieves all trades by a trader, ordered by timestamp ASC.
func (s *TradeHistoryStore) GetByTrader(ctx context.Context, trader string) (_ []*domain.TradeRecord, err error) {
	defer observeQuery("trade_history_get_by_trader", time.Now(), &err)

	query := `
		SELECT trade_id, market_id, mint, trader, direction,
		       amount_in, amount_out,
		       new_price, new_supply, new_capitalization, price_impact_bps,
		       fee_amount, tax_amount, timestamp_ms
		FROM trade_history
		WHERE trader = ?
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, trader)
	if err != nil {
		return nil, fmt.Errorf("query by trader: %w", err)
	}
	defer rows.Close()

	return scanTradeHistory(rows)
}

// GetByTimeRange retrieves trades for a market within [start, end] (inclusive).
func (s *TradeHistoryStore) GetByTimeRange(ctx context.Context, marketID string, start, end int64) (_ []*domain.TradeRecord, err error) {
	defer observeQuery("trade_history_get_by_range", time.Now(), &err)

	query := `
		SELECT trade_id, market_id, mint, trader, direction,
		       amount_in, amount_out,
		       new_price, new_supply, new_capitalization, price_impact_bps,
		       fee_amount, tax_amount, timestamp_ms
		FROM trade_history
		WHERE market_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, marketID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanTradeHistory(rows)
}

func scanTradeHistory(rows chRows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var direction string
		var timestampMs uint64
		err := rows.Scan(
			&t.TradeID, &t.MarketID, &t.Mint, &t.Trader, &direction,
			&t.AmountIn, &t.AmountOut,
			&t.NewPrice, &t.NewSupply, &t.NewCapitalization, &t.PriceImpactBps,
			&t.FeeAmount, &t.TaxAmount, &timestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Direction = domain.TradeDirection(direction)
		t.Timestamp = int64(timestampMs)
		trades = append(trades, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}
