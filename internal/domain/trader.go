package domain

// TraderProfile tracks per-trader lifetime trade statistics.
// Corresponds to the trader_profiles table in PostgreSQL.
// The whale tax reads TotalVolumeBase; everything else is bookkeeping
// for the surrounding service.
type TraderProfile struct {
	Trader string // trader address (base58), PRIMARY KEY

	TotalVolumeBase   uint64 // cumulative base-asset volume (lamports)
	TotalTokensBought uint64
	TotalTokensSold   uint64
	TradeCount        uint64
	LastTradeAt       int64 // Unix timestamp in milliseconds
}
