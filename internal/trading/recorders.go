package trading

import (
	"context"
	"fmt"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// TradeStoreRecorder persists settled trades into a TradeRecordStore.
type TradeStoreRecorder struct {
	store storage.TradeRecordStore
}

// NewTradeStoreRecorder wraps the store as an executor Recorder.
func NewTradeStoreRecorder(store storage.TradeRecordStore) *TradeStoreRecorder {
	return &TradeStoreRecorder{store: store}
}

func (r *TradeStoreRecorder) RecordTrade(ctx context.Context, record *domain.TradeRecord) error {
	if err := r.store.Insert(ctx, record); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}
	return nil
}

// PricePointRecorder turns each settled trade into one price
// observation for the charting timeseries.
type PricePointRecorder struct {
	store storage.PriceHistoryStore
}

// NewPricePointRecorder wraps the store as an executor Recorder.
func NewPricePointRecorder(store storage.PriceHistoryStore) *PricePointRecorder {
	return &PricePointRecorder{store: store}
}

func (r *PricePointRecorder) RecordTrade(ctx context.Context, record *domain.TradeRecord) error {
	point := &domain.PricePoint{
		MarketID:       record.MarketID,
		TimestampMs:    record.Timestamp,
		Price:          record.NewPrice,
		Capitalization: record.NewCapitalization,
		VolumeBase:     baseSideOf(record),
	}
	if err := r.store.InsertBulk(ctx, []*domain.PricePoint{point}); err != nil {
		return fmt.Errorf("record price point: %w", err)
	}
	return nil
}
