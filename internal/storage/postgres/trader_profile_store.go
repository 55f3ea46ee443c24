package postgres

import (
	"context"
	"fmt"
	"time"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// TraderProfileStore implements storage.TraderProfileStore using PostgreSQL.
type TraderProfileStore struct {
	pool *Pool
}

// NewTraderProfileStore creates a new TraderProfileStore.
func NewTraderProfileStore(pool *Pool) *TraderProfileStore {
	return &TraderProfileStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TraderProfileStore = (*TraderProfileStore)(nil)

// Upsert inserts the profile or overwrites the existing one.
func (s *TraderProfileStore) Upsert(ctx context.Context, p *domain.TraderProfile) (err error) {
	defer observeQuery("profiles_upsert", time.Now(), &err)

	query := `
		INSERT INTO trader_profiles (
			trader, total_volume_base, total_tokens_bought, total_tokens_sold, trade_count, last_trade_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (trader) DO UPDATE SET
			total_volume_base = EXCLUDED.total_volume_base,
			total_tokens_bought = EXCLUDED.total_tokens_bought,
			total_tokens_sold = EXCLUDED.total_tokens_sold,
			trade_count = EXCLUDED.trade_count,
			last_trade_at = EXCLUDED.last_trade_at
	`

	_, err = s.pool.Exec(ctx, query,
		p.Trader, p.TotalVolumeBase, p.TotalTokensBought, p.TotalTokensSold, p.TradeCount, p.LastTradeAt,
	)
	if err != nil {
		return fmt.Errorf("upsert trader profile: %w", err)
	}
	return nil
}

// GetByAddress retrieves a profile. Returns ErrNotFound if not exists.
func (s *TraderProfileStore) GetByAddress(ctx context.Context, trader string) (_ *domain.TraderProfile, err error) {
	defer observeQuery("profiles_get", time.Now(), &err)

	query := `
		SELECT trader, total_volume_base, total_tokens_bought, total_tokens_sold, trade_count, last_trade_at
		FROM trader_profiles
		WHERE trader = $1
	`

	var p domain.TraderProfile
	err = s.pool.QueryRow(ctx, query, trader).Scan(
		&p.Trader, &p.TotalVolumeBase, &p.TotalTokensBought, &p.TotalTokensSold, &p.TradeCount, &p.LastTradeAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trader profile: %w", err)
	}
	return &p, nil
}
