package clickhouse

import (
	"context"
	"fmt"
	"time"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (market_id, timestamp_ms).
func (s *PriceHistoryStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) (err error) {
	defer observeQuery("price_history_insert", time.Now(), &err)

	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates.
	type key struct {
		marketID    string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		k := key{p.MarketID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree doesn't enforce uniqueness; check against existing rows.
	for _, p := range points {
		exists, err := s.exists(ctx, p.MarketID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			market_id, timestamp_ms, price, capitalization, volume_base, trade_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.MarketID, uint64(p.TimestampMs),
			p.Price, p.Capitalization, p.VolumeBase, p.TradeCount,
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

// GetByMarketID retrieves all points for a market, ordered by timestamp ASC.
func (s *PriceHistoryStore) GetByMarketID(ctx context.Context, marketID string) (_ []*domain.PricePoint, err error) {
	defer observeQuery("price_history_get_by_market", time.Now(), &err)

	query := `
		SELECT market_id, timestamp_ms, price, capitalization, volume_base, trade_count
		FROM price_history
		WHERE market_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("query by market id: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetByTimeRange retrieves points for a market within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, marketID string, start, end int64) (_ []*domain.PricePoint, err error) {
	defer observeQuery("price_history_get_by_range", time.Now(), &err)

	query := `
		SELECT market_id, timestamp_ms, price, capitalization, volume_base, trade_count
		FROM price_history
		WHERE market_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, marketID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func (s *PriceHistoryStore) exists(ctx context.Context, marketID string, timestampMs int64) (bool, error) {
	query := `SELECT count(*) FROM price_history WHERE market_id = ? AND timestamp_ms = ?`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, marketID, uint64(timestampMs)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanPricePoints(rows chRows) ([]*domain.PricePoint, error) {
	var points []*domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		var timestampMs uint64
		err := rows.Scan(
			&p.MarketID, &timestampMs, &p.Price, &p.Capitalization, &p.VolumeBase, &p.TradeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price points: %w", err)
	}
	return points, nil
}
