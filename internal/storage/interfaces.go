package storage

import (
	"context"

	"pump-launchpad/internal/domain"
)

// MarketStore provides access to markets storage.
type MarketStore interface {
	// Insert adds a new market. Returns ErrDuplicateKey if market_id exists.
	Insert(ctx context.Context, m *domain.Market) error

	// GetByID retrieves a market by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, marketID string) (*domain.Market, error)

	// GetByMint retrieves the market for a mint address. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.Market, error)

	// Update overwrites an existing market. Returns ErrNotFound if not exists.
	Update(ctx context.Context, m *domain.Market) error

	// List retrieves all markets, graduated ones included.
	List(ctx context.Context) ([]*domain.Market, error)
}

// TradeRecordStore provides access to trade_records storage. Records are
// append-only.
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByMarketID retrieves all trades for a market, ordered by timestamp ASC.
	GetByMarketID(ctx context.Context, marketID string) ([]*domain.TradeRecord, error)

	// GetByTrader retrieves all trades by a trader, ordered by timestamp ASC.
	GetByTrader(ctx context.Context, trader string) ([]*domain.TradeRecord, error)
}

// TraderProfileStore provides access to trader_profiles storage.
type TraderProfileStore interface {
	// Upsert inserts the profile or overwrites the existing one.
	Upsert(ctx context.Context, p *domain.TraderProfile) error

	// GetByAddress retrieves a profile. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, trader string) (*domain.TraderProfile, error)
}

// PriceHistoryStore provides access to price_history timeseries storage.
type PriceHistoryStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (market_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// GetByMarketID retrieves all points for a market, ordered by timestamp ASC.
	GetByMarketID(ctx context.Context, marketID string) ([]*domain.PricePoint, error)

	// GetByTimeRange retrieves points for a market within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, marketID string, start, end int64) ([]*domain.PricePoint, error)
}
