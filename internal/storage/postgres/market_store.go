package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// MarketStore implements storage.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *Pool
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(pool *Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarketStore = (*MarketStore)(nil)

const marketColumns = `
	market_id, mint, creator,
	curve_type, initial_price, slope, growth_factor, scale, steepness, midpoint, max_price,
	graduation_threshold, volatility_damper, initial_supply, max_supply,
	base_reserve, token_reserve, circulating_supply, total_supply,
	total_volume_base, trade_count, last_trade_at, all_time_high_price,
	graduated, graduated_at, created_at
`

// Insert adds a new market. Returns ErrDuplicateKey if market_id or mint exists.
func (s *MarketStore) Insert(ctx context.Context, m *domain.Market) (err error) {
	defer observeQuery("markets_insert", time.Now(), &err)

	query := `
		INSERT INTO markets (` + marketColumns + `) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, $26
		)
	`

	_, err = s.pool.Exec(ctx, query, marketArgs(m)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert market: %w", err)
	}
	return nil
}

// GetByID retrieves a market by its ID. Returns ErrNotFound if not exists.
func (s *MarketStore) GetByID(ctx context.Context, marketID string) (_ *domain.Market, err error) {
	defer observeQuery("markets_get_by_id", time.Now(), &err)

	query := `SELECT ` + marketColumns + ` FROM markets WHERE market_id = $1`

	m, err := scanMarket(s.pool.QueryRow(ctx, query, marketID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get market by id: %w", err)
	}
	return m, nil
}

// GetByMint retrieves the market for a mint address. Returns ErrNotFound if not exists.
func (s *MarketStore) GetByMint(ctx context.Context, mint string) (_ *domain.Market, err error) {
	defer observeQuery("markets_get_by_mint", time.Now(), &err)

	query := `SELECT ` + marketColumns + ` FROM markets WHERE mint = $1`

	m, err := scanMarket(s.pool.QueryRow(ctx, query, mint))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get market by mint: %w", err)
	}
	return m, nil
}

// Update overwrites an existing market. Returns ErrNotFound if not exists.
func (s *MarketStore) Update(ctx context.Context, m *domain.Market) (err error) {
	defer observeQuery("markets_update", time.Now(), &err)

	query := `
		UPDATE markets SET
			mint = $2, creator = $3,
			curve_type = $4, initial_price = $5, slope = $6, growth_factor = $7,
			scale = $8, steepness = $9, midpoint = $10, max_price = $11,
			graduation_threshold = $12, volatility_damper = $13, initial_supply = $14, max_supply = $15,
			base_reserve = $16, token_reserve = $17, circulating_supply = $18, total_supply = $19,
			total_volume_base = $20, trade_count = $21, last_trade_at = $22, all_time_high_price = $23,
			graduated = $24, graduated_at = $25, created_at = $26
		WHERE market_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, marketArgs(m)...)
	if err != nil {
		return fmt.Errorf("update market: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List retrieves all markets ordered by creation time.
func (s *MarketStore) List(ctx context.Context) (_ []*domain.Market, err error) {
	defer observeQuery("markets_list", time.Now(), &err)

	query := `SELECT ` + marketColumns + ` FROM markets ORDER BY created_at ASC, market_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	defer rows.Close()

	var markets []*domain.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		markets = append(markets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate markets: %w", err)
	}
	return markets, nil
}

func marketArgs(m *domain.Market) []any {
	return []any{
		m.MarketID, m.Mint, m.Creator,
		string(m.Params.CurveType), m.Params.InitialPrice, m.Params.Slope, m.Params.GrowthFactor,
		m.Params.Scale, m.Params.Steepness, m.Params.Midpoint, m.Params.MaxPrice,
		m.Params.GraduationThreshold, m.Params.VolatilityDamper, m.Params.InitialSupply, m.Params.MaxSupply,
		m.Reserves.BaseReserve, m.Reserves.TokenReserve, m.Reserves.CirculatingSupply, m.Reserves.TotalSupply,
		m.TotalVolumeBase, m.TradeCount, m.LastTradeAt, m.AllTimeHighPrice,
		m.Graduated, m.GraduatedAt, m.CreatedAt,
	}
}

func scanMarket(row pgx.Row) (*domain.Market, error) {
	var m domain.Market
	var curveType string

	err := row.Scan(
		&m.MarketID, &m.Mint, &m.Creator,
		&curveType, &m.Params.InitialPrice, &m.Params.Slope, &m.Params.GrowthFactor,
		&m.Params.Scale, &m.Params.Steepness, &m.Params.Midpoint, &m.Params.MaxPrice,
		&m.Params.GraduationThreshold, &m.Params.VolatilityDamper, &m.Params.InitialSupply, &m.Params.MaxSupply,
		&m.Reserves.BaseReserve, &m.Reserves.TokenReserve, &m.Reserves.CirculatingSupply, &m.Reserves.TotalSupply,
		&m.TotalVolumeBase, &m.TradeCount, &m.LastTradeAt, &m.AllTimeHighPrice,
		&m.Graduated, &m.GraduatedAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Params.CurveType = domain.CurveType(curveType)
	return &m, nil
}
