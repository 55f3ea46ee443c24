package trading

import (
	"context"
	"testing"

	"pump-launchpad/internal/storage/memory"
)

func TestTradeStoreRecorder(t *testing.T) {
	trades := memory.NewTradeRecordStore()
	f := newFixture(t, ExecutorOptions{Recorders: []Recorder{NewTradeStoreRecorder(trades)}})
	ctx := context.Background()

	record, err := f.executor.Execute(ctx, buyRequest(10_000))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	stored, err := trades.GetByID(ctx, record.TradeID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.AmountOut != record.AmountOut {
		t.Errorf("stored AmountOut = %d, want %d", stored.AmountOut, record.AmountOut)
	}
}

func TestPricePointRecorder(t *testing.T) {
	points := memory.NewPriceHistoryStore()
	f := newFixture(t, ExecutorOptions{Recorders: []Recorder{NewPricePointRecorder(points)}})
	ctx := context.Background()

	record, err := f.executor.Execute(ctx, buyRequest(10_000))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	history, err := points.GetByMarketID(ctx, "market-1")
	if err != nil {
		t.Fatalf("GetByMarketID: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d price points, want 1", len(history))
	}
	if history[0].Price != record.NewPrice {
		t.Errorf("point price = %d, want %d", history[0].Price, record.NewPrice)
	}
	if history[0].VolumeBase != record.AmountIn {
		t.Errorf("point volume = %d, want %d", history[0].VolumeBase, record.AmountIn)
	}
	if history[0].TimestampMs != record.Timestamp {
		t.Errorf("point timestamp = %d, want %d", history[0].TimestampMs, record.Timestamp)
	}
}
