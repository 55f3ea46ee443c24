package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const tradeColumns = `
	trade_id, market_id, mint, trader, direction,
	amount_in, amount_out,
	new_price, new_supply, new_capitalization, price_impact_bps,
	fee_amount, tax_amount, timestamp_ms
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) (err error) {
	defer observeQuery("trades_insert", time.Now(), &err)

	query := `
		INSERT INTO trade_records (` + tradeColumns + `) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10, $11,
			$12, $13, $14
		)
	`

	_, err = s.pool.Exec(ctx, query,
		t.TradeID, t.MarketID, t.Mint, t.Trader, string(t.Direction),
		t.AmountIn, t.AmountOut,
		t.NewPrice, t.NewSupply, t.NewCapitalization, t.PriceImpactBps,
		t.FeeAmount, t.TaxAmount, t.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade record: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(ctx context.Context, tradeID string) (_ *domain.TradeRecord, err error) {
	defer observeQuery("trades_get_by_id", time.Now(), &err)

	query := `SELECT ` + tradeColumns + ` FROM trade_records WHERE trade_id = $1`

	t, err := scanTrade(s.pool.QueryRow(ctx, query, tradeID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByMarketID retrieves all trades for a market, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByMarketID(ctx context.Context, marketID string) (_ []*domain.TradeRecord, err error) {
	defer observeQuery("trades_get_by_market", time.Now(), &err)

	query := `
		SELECT ` + tradeColumns + `
		FROM trade_records
		WHERE market_id = $1
		ORDER BY timestamp_ms ASC, trade_id ASC
	`
	return s.queryTrades(ctx, query, marketID)
}

// GetByTrader retrieves all trades by a trader, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByTrader(ctx context.Context, trader string) (_ []*domain.TradeRecord, err error) {
	defer observeQuery("trades_get_by_trader", time.Now(), &err)

	query := `
		SELECT ` + tradeColumns + `
		FROM trade_records
		WHERE trader = $1
		ORDER BY timestamp_ms ASC, trade_id ASC
	`
	return s.queryTrades(ctx, query, trader)
}

func (s *TradeRecordStore) queryTrades(ctx context.Context, query string, args ...any) ([]*domain.TradeRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.TradeRecord
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}

func scanTrade(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var direction string

	err := row.Scan(
		&t.TradeID, &t.MarketID, &t.Mint, &t.Trader, &direction,
		&t.AmountIn, &t.AmountOut,
		&t.NewPrice, &t.NewSupply, &t.NewCapitalization, &t.PriceImpactBps,
		&t.FeeAmount, &t.TaxAmount, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	t.Direction = domain.TradeDirection(direction)
	return &t, nil
}
