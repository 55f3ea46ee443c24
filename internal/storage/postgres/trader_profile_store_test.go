package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

func TestTraderProfileStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderProfileStore(pool)

	profile := &domain.TraderProfile{
		Trader:            "alice",
		TotalVolumeBase:   10_000,
		TotalTokensBought: 1_414_113,
		TradeCount:        1,
		LastTradeAt:       1_700_000_000_000,
	}
	require.NoError(t, store.Upsert(ctx, profile))

	retrieved, err := store.GetByAddress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, profile, retrieved)
}

func TestTraderProfileStore_UpsertOverwrites(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTraderProfileStore(pool)

	require.NoError(t, store.Upsert(ctx, &domain.TraderProfile{Trader: "alice", TotalVolumeBase: 10_000, TradeCount: 1}))
	require.NoError(t, store.Upsert(ctx, &domain.TraderProfile{Trader: "alice", TotalVolumeBase: 30_000, TradeCount: 2, TotalTokensSold: 500}))

	retrieved, err := store.GetByAddress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000), retrieved.TotalVolumeBase)
	assert.Equal(t, uint64(2), retrieved.TradeCount)
	assert.Equal(t, uint64(500), retrieved.TotalTokensSold)
}

func TestTraderProfileStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTraderProfileStore(pool)

	_, err := store.GetByAddress(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
