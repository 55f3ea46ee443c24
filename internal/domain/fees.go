package domain

// FeePolicy carries the platform fee and trade-limit parameters supplied
// by the external admin-controlled configuration store. Read-only at
// trade time.
type FeePolicy struct {
	// FeeRateBps is the platform fee on the gross trade amount, 0-10000.
	FeeRateBps uint64

	// WhaleTaxBps is applied on top of the platform fee when the trade
	// amount or the trader's lifetime volume reaches WhaleThreshold.
	WhaleTaxBps    uint64
	WhaleThreshold uint64 // lamports

	// MaxTradeSize rejects any single trade above this gross amount.
	MaxTradeSize uint64 // lamports for BUY, token units for SELL

	// MaxSlippageBps caps the caller-supplied slippage tolerance (<=5000).
	MaxSlippageBps uint64
}

// DefaultFeePolicy mirrors the platform defaults: 1% fee, 5% whale tax
// above 100 SOL, 1000 SOL max trade, 5% max slippage tolerance.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		FeeRateBps:     100,
		WhaleTaxBps:    500,
		WhaleThreshold: 100_000_000_000,
		MaxTradeSize:   1_000_000_000_000,
		MaxSlippageBps: 500,
	}
}
