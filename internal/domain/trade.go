package domain

// TradeDirection distinguishes buys from sells.
type TradeDirection string

const (
	TradeBuy  TradeDirection = "BUY"
	TradeSell TradeDirection = "SELL"
)

// TradeRequest is the input to a single trade execution.
type TradeRequest struct {
	MarketID  string
	Trader    string // trader address (base58)
	Direction TradeDirection

	// AmountIn is lamports for BUY, token units for SELL.
	AmountIn uint64

	// MinOut is the minimum acceptable output (token units for BUY,
	// lamports for SELL). Zero disables the check.
	MinOut uint64

	// SlippageToleranceBps caps the acceptable price impact, 0-10000.
	SlippageToleranceBps uint64
}

// TradeRecord is the immutable outcome of one settled trade.
// Corresponds to the trade_records table in PostgreSQL and the
// trade_history table in ClickHouse.
type TradeRecord struct {
	TradeID   string // deterministic hash
	MarketID  string
	Mint      string
	Trader    string
	Direction TradeDirection

	AmountIn  uint64 // gross amount supplied by the trader
	AmountOut uint64 // amount delivered to the trader

	NewPrice          uint64 // price per token after settlement (lamports)
	NewSupply         uint64 // circulating supply after settlement
	NewCapitalization uint64 // market cap after settlement (lamports)
	PriceImpactBps    uint64 // 0-10000

	FeeAmount uint64 // platform fee (lamports)
	TaxAmount uint64 // whale tax (lamports)

	Timestamp int64 // Unix timestamp in milliseconds
}

// PricePoint is one market price observation for charting.
// Corresponds to the price_history table in ClickHouse.
type PricePoint struct {
	MarketID       string
	TimestampMs    int64
	Price          uint64 // lamports per token
	Capitalization uint64 // lamports
	VolumeBase     uint64 // base volume of the trade producing this point
	TradeCount     uint64 // market trade count after this point
}
