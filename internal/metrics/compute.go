package metrics

import (
	"math/bits"
	"sort"

	"pump-launchpad/internal/domain"
)

// computeMarketSummary calculates the full summary from a market's
// trades. Trades arrive sorted by timestamp from the store; the sizes
// are re-sorted locally for the median.
func computeMarketSummary(marketID string, trades []*domain.TradeRecord) *MarketSummary {
	summary := &MarketSummary{
		MarketID:     marketID,
		FirstTradeAt: trades[0].Timestamp,
		LastTradeAt:  trades[len(trades)-1].Timestamp,
		LastPrice:    trades[len(trades)-1].NewPrice,
	}

	traders := make(map[string]struct{})
	sizes := make([]uint64, 0, len(trades))
	for _, t := range trades {
		summary.TradeCount++
		if t.Direction == domain.TradeBuy {
			summary.BuyCount++
		} else {
			summary.SellCount++
		}

		base := baseSide(t)
		sizes = append(sizes, base)
		summary.TotalVolumeBase = saturatingAdd(summary.TotalVolumeBase, base)
		summary.TotalFees = saturatingAdd(summary.TotalFees, t.FeeAmount)
		summary.TotalWhaleTax = saturatingAdd(summary.TotalWhaleTax, t.TaxAmount)
		if base > summary.LargestTradeBase {
			summary.LargestTradeBase = base
		}
		traders[t.Trader] = struct{}{}
	}

	summary.UniqueTraders = uint64(len(traders))
	summary.AverageTradeBase = summary.TotalVolumeBase / summary.TradeCount
	summary.MedianTradeBase = medianOf(sizes)
	summary.PriceChangeBps = signedChangeBps(trades[0].NewPrice, summary.LastPrice)

	return summary
}

// baseSide is the lamport side of a trade: what the trader paid on a
// buy, what the market paid out plus charges on a sell.
func baseSide(t *domain.TradeRecord) uint64 {
	if t.Direction == domain.TradeBuy {
		return t.AmountIn
	}
	return saturatingAdd(saturatingAdd(t.AmountOut, t.FeeAmount), t.TaxAmount)
}

// medianOf returns the lower median. The input slice is sorted in place.
func medianOf(values []uint64) uint64 {
	if len(values) == 0 {
		return 0
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values[(len(values)-1)/2]
}

// signedChangeBps is the basis-point move from first to last, negative
// for a decline. Saturates at +-10_000_000 to keep extreme moves finite.
func signedChangeBps(first, last uint64) int64 {
	if first == 0 {
		return 0
	}

	const maxBps = 10_000_000
	var diff uint64
	negative := false
	if last >= first {
		diff = last - first
	} else {
		diff = first - last
		negative = true
	}

	bps := uint64(maxBps)
	if quotient := diff / first; quotient < maxBps/10_000 {
		hi, lo := bits.Mul64(diff%first, 10_000)
		frac, _ := bits.Div64(hi, lo, first)
		bps = quotient*10_000 + frac
	}
	if negative {
		return -int64(bps)
	}
	return int64(bps)
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}
