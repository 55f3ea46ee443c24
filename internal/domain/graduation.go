package domain

// GraduationSignal is the stateless maturity evaluation of a market.
// Computed on demand after every settled trade; never stored by the core.
type GraduationSignal struct {
	MarketID string

	// Eligible is true once capitalization has reached the configured
	// graduation threshold.
	Eligible bool

	// Capitalization is the market cap at evaluation time (lamports).
	Capitalization uint64

	// ProgressScaled is capitalization/threshold clamped to [0, 1],
	// 10^9-scaled.
	ProgressScaled uint64
}
