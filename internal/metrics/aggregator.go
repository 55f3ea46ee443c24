// Package metrics computes trading statistics from settled trade
// records: per-market summaries for the API and per-trader activity
// rollups. Everything is derived on demand; nothing here is stored.
package metrics

import (
	"context"
	"errors"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// ErrNoTrades is returned when no trades are available for aggregation.
var ErrNoTrades = errors.New("no trades available for aggregation")

// MarketSummary is the aggregate view of one market's trading activity.
type MarketSummary struct {
	MarketID string `json:"market_id"`

	TradeCount uint64 `json:"trade_count"`
	BuyCount   uint64 `json:"buy_count"`
	SellCount  uint64 `json:"sell_count"`

	TotalVolumeBase uint64 `json:"total_volume_base"`
	TotalFees       uint64 `json:"total_fees"`
	TotalWhaleTax   uint64 `json:"total_whale_tax"`

	UniqueTraders uint64 `json:"unique_traders"`

	AverageTradeBase uint64 `json:"average_trade_base"`
	MedianTradeBase  uint64 `json:"median_trade_base"`
	LargestTradeBase uint64 `json:"largest_trade_base"`

	FirstTradeAt int64 `json:"first_trade_at"`
	LastTradeAt  int64 `json:"last_trade_at"`

	LastPrice uint64 `json:"last_price"`

	// PriceChangeBps is the signed move from the first to the last
	// post-trade price, in basis points of the first.
	PriceChangeBps int64 `json:"price_change_bps"`
}

// TraderSummary is the aggregate view of one trader's activity.
type TraderSummary struct {
	Trader string `json:"trader"`

	TradeCount uint64 `json:"trade_count"`
	BuyCount   uint64 `json:"buy_count"`
	SellCount  uint64 `json:"sell_count"`

	TotalVolumeBase uint64 `json:"total_volume_base"`
	MarketsTraded   uint64 `json:"markets_traded"`

	FirstTradeAt int64 `json:"first_trade_at"`
	LastTradeAt  int64 `json:"last_trade_at"`
}

// Aggregator computes summaries from trade records.
type Aggregator struct {
	trades storage.TradeRecordStore
}

// NewAggregator creates a new metrics aggregator.
func NewAggregator(trades storage.TradeRecordStore) *Aggregator {
	return &Aggregator{trades: trades}
}

// ComputeMarketSummary aggregates every settled trade of a market.
// Returns ErrNoTrades for a market with no trading history.
func (a *Aggregator) ComputeMarketSummary(ctx context.Context, marketID string) (*MarketSummary, error) {
	trades, err := a.trades.GetByMarketID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	return computeMarketSummary(marketID, trades), nil
}

// ComputeTraderSummary aggregates every trade a trader settled.
// Returns ErrNoTrades for a trader with no history.
func (a *Aggregator) ComputeTraderSummary(ctx context.Context, trader string) (*TraderSummary, error) {
	trades, err := a.trades.GetByTrader(ctx, trader)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	summary := &TraderSummary{
		Trader:       trader,
		FirstTradeAt: trades[0].Timestamp,
		LastTradeAt:  trades[len(trades)-1].Timestamp,
	}

	markets := make(map[string]struct{})
	for _, t := range trades {
		summary.TradeCount++
		if t.Direction == domain.TradeBuy {
			summary.BuyCount++
		} else {
			summary.SellCount++
		}
		summary.TotalVolumeBase = saturatingAdd(summary.TotalVolumeBase, baseSide(t))
		markets[t.MarketID] = struct{}{}
	}
	summary.MarketsTraded = uint64(len(markets))

	return summary, nil
}
