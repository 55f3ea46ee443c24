package trading

import "errors"

// Trade execution errors. Every rejection path returns one of these
// sentinels (possibly wrapped with context) and leaves market state
// untouched.
var (
	// ErrSlippageExceeded is returned when the quoted output falls below
	// the trader's minimum or the price impact exceeds their tolerance.
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrMaxTradeSizeExceeded is returned when the base-asset side of a
	// trade exceeds the policy maximum.
	ErrMaxTradeSizeExceeded = errors.New("max trade size exceeded")

	// ErrInvalidSlippageTolerance is returned when the requested
	// tolerance exceeds the policy maximum.
	ErrInvalidSlippageTolerance = errors.New("invalid slippage tolerance")

	// ErrMarketGraduated is returned for any trade against a market
	// that has graduated. Graduation is terminal.
	ErrMarketGraduated = errors.New("market graduated")

	// ErrTradeDenied is returned when the security gate rejects the
	// trade. The wrapped message carries the reason.
	ErrTradeDenied = errors.New("trade denied")

	// ErrTradingPaused is returned while an emergency pause is active.
	ErrTradingPaused = errors.New("trading paused")
)
