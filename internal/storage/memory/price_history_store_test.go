package memory

import (
	"context"
	"errors"
	"testing"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

func samplePoints() []*domain.PricePoint {
	return []*domain.PricePoint{
		{MarketID: "m1", TimestampMs: 3000, Price: 1200},
		{MarketID: "m1", TimestampMs: 1000, Price: 1000},
		{MarketID: "m2", TimestampMs: 2000, Price: 5000},
	}
}

func TestPriceHistoryStore_InsertBulkAndGet(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, samplePoints()); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	points, err := store.GetByMarketID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByMarketID failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].TimestampMs != 1000 || points[1].TimestampMs != 3000 {
		t.Errorf("wrong order: %d, %d", points[0].TimestampMs, points[1].TimestampMs)
	}
}

func TestPriceHistoryStore_DuplicateFailsBatch(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, samplePoints()); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	batch := []*domain.PricePoint{
		{MarketID: "m3", TimestampMs: 100, Price: 1},
		{MarketID: "m1", TimestampMs: 1000, Price: 2}, // duplicate
	}
	if err := store.InsertBulk(ctx, batch); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// The whole batch must be rejected, including the fresh point.
	points, err := store.GetByMarketID(ctx, "m3")
	if err != nil {
		t.Fatalf("GetByMarketID failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("failed batch leaked %d points", len(points))
	}
}

func TestPriceHistoryStore_GetByTimeRange(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, samplePoints()); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	points, err := store.GetByTimeRange(ctx, "m1", 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(points) != 1 || points[0].TimestampMs != 1000 {
		t.Errorf("unexpected range result: %+v", points)
	}
}

func TestPriceHistoryStore_InvalidInput(t *testing.T) {
	store := NewPriceHistoryStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.PricePoint{nil}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil point, got %v", err)
	}
	if err := store.InsertBulk(ctx, []*domain.PricePoint{{TimestampMs: 1}}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty market ID, got %v", err)
	}
}
