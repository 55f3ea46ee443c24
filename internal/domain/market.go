package domain

// ReserveState is the mutable per-market ledger. Corresponds to the
// markets table in PostgreSQL. Mutated only by the trade executor,
// exactly once per accepted trade.
type ReserveState struct {
	// BaseReserve is the settlement-asset balance held by the market (lamports).
	BaseReserve uint64

	// TokenReserve is the unsold token balance held by the market.
	TokenReserve uint64

	// CirculatingSupply is TotalSupply - TokenReserve.
	CirculatingSupply uint64

	// TotalSupply is the fixed total token issuance for the market.
	TotalSupply uint64
}

// Market binds curve parameters to a live reserve state plus trade statistics.
// Corresponds to the markets table in PostgreSQL.
type Market struct {
	MarketID string // PRIMARY KEY, deterministic hash of mint
	Mint     string // token mint address (base58)
	Creator  string // creator address (base58)

	Params   CurveParameters
	Reserves ReserveState

	// Trade statistics, updated on every settled trade.
	TotalVolumeBase  uint64 // cumulative base-asset volume (lamports)
	TradeCount       uint64
	LastTradeAt      int64  // Unix timestamp in milliseconds, 0 if never traded
	AllTimeHighPrice uint64 // highest post-trade price seen (lamports)

	// Graduation state. Once Graduated is set the market is terminal:
	// reserves are considered migrated out and no further trades settle.
	Graduated   bool
	GraduatedAt int64 // Unix timestamp in milliseconds, 0 if not graduated

	CreatedAt int64 // Unix timestamp in milliseconds
}
