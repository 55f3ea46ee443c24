package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

func createTestMarket(marketID, mint string) *domain.Market {
	return &domain.Market{
		MarketID: marketID,
		Mint:     mint,
		Creator:  "creator-address",
		Params: domain.CurveParameters{
			CurveType:           domain.CurveLinear,
			InitialPrice:        1000,
			Slope:               10,
			GraduationThreshold: 1_000_000_000_000,
			VolatilityDamper:    1_000_000_000,
			InitialSupply:       1_000_000_000_000_000,
		},
		Reserves: domain.ReserveState{
			TokenReserve: 1_000_000_000_000_000,
			TotalSupply:  1_000_000_000_000_000,
		},
		CreatedAt: 1_700_000_000_000,
	}
}

func TestMarketStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarketStore(pool)

	market := createTestMarket("market-001", "mint-001")
	require.NoError(t, store.Insert(ctx, market))

	retrieved, err := store.GetByID(ctx, "market-001")
	require.NoError(t, err)

	assert.Equal(t, market.MarketID, retrieved.MarketID)
	assert.Equal(t, market.Mint, retrieved.Mint)
	assert.Equal(t, market.Creator, retrieved.Creator)
	assert.Equal(t, market.Params, retrieved.Params)
	assert.Equal(t, market.Reserves, retrieved.Reserves)
	assert.Equal(t, market.CreatedAt, retrieved.CreatedAt)
	assert.False(t, retrieved.Graduated)
}

func TestMarketStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarketStore(pool)

	require.NoError(t, store.Insert(ctx, createTestMarket("market-001", "mint-001")))

	err := store.Insert(ctx, createTestMarket("market-001", "mint-002"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Mint uniqueness is enforced too.
	err = store.Insert(ctx, createTestMarket("market-002", "mint-001"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestMarketStore_GetByMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarketStore(pool)

	require.NoError(t, store.Insert(ctx, createTestMarket("market-001", "mint-001")))

	retrieved, err := store.GetByMint(ctx, "mint-001")
	require.NoError(t, err)
	assert.Equal(t, "market-001", retrieved.MarketID)

	_, err = store.GetByMint(ctx, "missing-mint")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarketStore(pool)

	market := createTestMarket("market-001", "mint-001")
	require.NoError(t, store.Insert(ctx, market))

	market.Reserves.BaseReserve = 500_000
	market.Reserves.TokenReserve -= 1_000_000
	market.Reserves.CirculatingSupply = 1_000_000
	market.TotalVolumeBase = 500_000
	market.TradeCount = 3
	market.LastTradeAt = 1_700_000_100_000
	market.AllTimeHighPrice = 2000
	market.Graduated = true
	market.GraduatedAt = 1_700_000_100_000

	require.NoError(t, store.Update(ctx, market))

	retrieved, err := store.GetByID(ctx, "market-001")
	require.NoError(t, err)
	assert.Equal(t, market.Reserves, retrieved.Reserves)
	assert.Equal(t, uint64(3), retrieved.TradeCount)
	assert.Equal(t, uint64(500_000), retrieved.TotalVolumeBase)
	assert.True(t, retrieved.Graduated)
	assert.Equal(t, int64(1_700_000_100_000), retrieved.GraduatedAt)
}

func TestMarketStore_UpdateNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)

	err := store.Update(context.Background(), createTestMarket("missing", "mint-x"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewMarketStore(pool)

	first := createTestMarket("market-001", "mint-001")
	second := createTestMarket("market-002", "mint-002")
	second.CreatedAt = first.CreatedAt + 1000

	// Insert out of order; List sorts by creation time.
	require.NoError(t, store.Insert(ctx, second))
	require.NoError(t, store.Insert(ctx, first))

	markets, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, "market-001", markets[0].MarketID)
	assert.Equal(t, "market-002", markets[1].MarketID)
}
