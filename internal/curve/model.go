package curve

import (
	"pump-launchpad/internal/domain"
)

// Calculation is the result of one quote. Produced fresh per call and
// never mutated afterwards.
type Calculation struct {
	// TokenAmount is the token side of the trade (out for buys, in for sells).
	TokenAmount uint64

	// BaseAmount is the base-asset side in lamports (in for buys, out for sells).
	BaseAmount uint64

	// NewSupply is the circulating supply after the trade.
	NewSupply uint64

	// PricePerToken is the post-trade price in lamports.
	PricePerToken uint64

	// PriceImpactBps is the proportional price change, 0-10000.
	PriceImpactBps uint64
}

// Model is the contract implemented identically by all five curve
// variants. Implementations are pure: they never mutate the supplied
// reserve state and are safe to call from any goroutine.
type Model interface {
	// QuoteBuy returns the token amount obtainable for a positive base
	// amount, failing with ErrInvalidAmount on a non-positive amount and
	// ErrInsufficientLiquidity when the curve has no remaining capacity.
	QuoteBuy(reserves domain.ReserveState, baseAmountIn uint64) (*Calculation, error)

	// QuoteSell returns the base amount obtainable for selling tokens
	// back, failing with ErrInsufficientBalance when the token amount
	// exceeds the circulating supply.
	QuoteSell(reserves domain.ReserveState, tokenAmountIn uint64) (*Calculation, error)

	// CurrentPrice is a pure function of the reserve state.
	CurrentPrice(reserves domain.ReserveState) (uint64, error)

	// MarketCap is the lamport value of the circulating supply at the
	// current price, saturating at the numeric ceiling rather than
	// wrapping.
	MarketCap(reserves domain.ReserveState) (uint64, error)
}

// marketCapOf implements the shared saturating capitalization rule:
// price (lamports per whole token) times circulating subunits, descaled.
func marketCapOf(m Model, reserves domain.ReserveState) (uint64, error) {
	price, err := m.CurrentPrice(reserves)
	if err != nil {
		return 0, err
	}
	cap := intFromU64(price).Mul(intFromU64(reserves.CirculatingSupply)).Quo(precisionInt)
	return saturatingU64(cap), nil
}

// checkBuyInput applies the validation shared by the supply-based curves.
func checkBuyInput(reserves domain.ReserveState, baseAmountIn, maxSupply uint64) error {
	if baseAmountIn == 0 {
		return ErrInvalidAmount
	}
	if reserves.TokenReserve == 0 || reserves.CirculatingSupply >= maxSupply {
		return ErrInsufficientLiquidity
	}
	return nil
}

// checkSellInput applies the validation shared by the supply-based curves.
func checkSellInput(reserves domain.ReserveState, tokenAmountIn uint64) error {
	if tokenAmountIn == 0 {
		return ErrInvalidAmount
	}
	if tokenAmountIn > reserves.CirculatingSupply {
		return ErrInsufficientBalance
	}
	return nil
}
