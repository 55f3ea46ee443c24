package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

func createTestTradeRecord(tradeID, marketID, trader string, timestamp int64) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:           tradeID,
		MarketID:          marketID,
		Mint:              "mint-001",
		Trader:            trader,
		Direction:         domain.TradeBuy,
		AmountIn:          10_000,
		AmountOut:         1_414_113,
		NewPrice:          14_142_130,
		NewSupply:         1_414_113,
		NewCapitalization: 19_998,
		PriceImpactBps:    10_000,
		FeeAmount:         100,
		TaxAmount:         0,
		Timestamp:         timestamp,
	}
}

// seedMarket satisfies the trade_records foreign key.
func seedMarket(t *testing.T, ctx context.Context, pool *Pool, marketID, mint string) {
	t.Helper()
	require.NoError(t, NewMarketStore(pool).Insert(ctx, createTestMarket(marketID, mint)))
}

func TestTradeRecordStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedMarket(t, ctx, pool, "market-001", "mint-001")
	store := NewTradeRecordStore(pool)

	trade := createTestTradeRecord("trade-001", "market-001", "alice", 1_700_000_000_000)
	require.NoError(t, store.Insert(ctx, trade))

	retrieved, err := store.GetByID(ctx, "trade-001")
	require.NoError(t, err)
	assert.Equal(t, trade, retrieved)
}

func TestTradeRecordStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedMarket(t, ctx, pool, "market-001", "mint-001")
	store := NewTradeRecordStore(pool)

	trade := createTestTradeRecord("trade-001", "market-001", "alice", 1_700_000_000_000)
	require.NoError(t, store.Insert(ctx, trade))

	err := store.Insert(ctx, trade)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTradeRecordStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeRecordStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeRecordStore_GetByMarketID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedMarket(t, ctx, pool, "market-001", "mint-001")
	seedMarket(t, ctx, pool, "market-002", "mint-002")
	store := NewTradeRecordStore(pool)

	// Insert out of time order; reads come back sorted.
	require.NoError(t, store.Insert(ctx, createTestTradeRecord("trade-002", "market-001", "alice", 2000)))
	require.NoError(t, store.Insert(ctx, createTestTradeRecord("trade-001", "market-001", "bob", 1000)))
	require.NoError(t, store.Insert(ctx, createTestTradeRecord("trade-003", "market-002", "alice", 1500)))

	trades, err := store.GetByMarketID(ctx, "market-001")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "trade-001", trades[0].TradeID)
	assert.Equal(t, "trade-002", trades[1].TradeID)

	empty, err := store.GetByMarketID(ctx, "market-without-trades")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTradeRecordStore_GetByTrader(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedMarket(t, ctx, pool, "market-001", "mint-001")
	store := NewTradeRecordStore(pool)

	require.NoError(t, store.Insert(ctx, createTestTradeRecord("trade-001", "market-001", "alice", 1000)))
	require.NoError(t, store.Insert(ctx, createTestTradeRecord("trade-002", "market-001", "bob", 2000)))
	require.NoError(t, store.Insert(ctx, createTestTradeRecord("trade-003", "market-001", "alice", 3000)))

	trades, err := store.GetByTrader(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "trade-001", trades[0].TradeID)
	assert.Equal(t, "trade-003", trades[1].TradeID)
}
