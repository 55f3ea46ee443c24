package curve

import (
	sdkmath "cosmossdk.io/math"

	"pump-launchpad/internal/domain"
)

// ConstantProduct implements the automated-market-maker invariant
// base*token = k. This is the only variant with exact trade math: quotes
// are closed-form and k must be conserved (within rounding) across every
// trade. Prices are Precision-scaled reserve ratios so sub-lamport
// ratios survive integer math.
type ConstantProduct struct{}

// NewConstantProduct builds a constant-product curve. All state lives in
// the reserves, so there is nothing to configure.
func NewConstantProduct() *ConstantProduct {
	return &ConstantProduct{}
}

// K returns the current invariant base*token.
func (c *ConstantProduct) K(reserves domain.ReserveState) uint64 {
	return saturatingU64(intFromU64(reserves.BaseReserve).Mul(intFromU64(reserves.TokenReserve)))
}

func (c *ConstantProduct) QuoteBuy(reserves domain.ReserveState, baseAmountIn uint64) (*Calculation, error) {
	if baseAmountIn == 0 {
		return nil, ErrInvalidAmount
	}
	if reserves.BaseReserve == 0 || reserves.TokenReserve == 0 {
		return nil, ErrInsufficientLiquidity
	}

	k, err := checkedMul(intFromU64(reserves.BaseReserve), intFromU64(reserves.TokenReserve))
	if err != nil {
		return nil, err
	}

	newBase := intFromU64(reserves.BaseReserve).Add(intFromU64(baseAmountIn))
	newToken, err := checkedQuo(k, newBase)
	if err != nil {
		return nil, err
	}

	tokensOut, err := toU64(intFromU64(reserves.TokenReserve).Sub(newToken))
	if err != nil {
		return nil, err
	}
	if tokensOut == 0 {
		return nil, ErrInvalidAmount
	}
	if tokensOut >= reserves.TokenReserve {
		return nil, ErrInsufficientLiquidity
	}

	oldPrice, err := c.CurrentPrice(reserves)
	if err != nil {
		return nil, err
	}
	newPrice, err := ratioPrice(newBase, newToken)
	if err != nil {
		return nil, err
	}

	newSupply := reserves.CirculatingSupply + tokensOut
	if newSupply < reserves.CirculatingSupply {
		return nil, ErrMathOverflow
	}

	return &Calculation{
		TokenAmount:    tokensOut,
		BaseAmount:     baseAmountIn,
		NewSupply:      newSupply,
		PricePerToken:  newPrice,
		PriceImpactBps: priceImpactBps(oldPrice, newPrice),
	}, nil
}

func (c *ConstantProduct) QuoteSell(reserves domain.ReserveState, tokenAmountIn uint64) (*Calculation, error) {
	if tokenAmountIn == 0 {
		return nil, ErrInvalidAmount
	}
	if tokenAmountIn > reserves.CirculatingSupply {
		return nil, ErrInsufficientBalance
	}
	if reserves.BaseReserve == 0 || reserves.TokenReserve == 0 {
		return nil, ErrInsufficientLiquidity
	}

	k, err := checkedMul(intFromU64(reserves.BaseReserve), intFromU64(reserves.TokenReserve))
	if err != nil {
		return nil, err
	}

	newToken := intFromU64(reserves.TokenReserve).Add(intFromU64(tokenAmountIn))
	newBase, err := checkedQuo(k, newToken)
	if err != nil {
		return nil, err
	}

	baseOut, err := toU64(intFromU64(reserves.BaseReserve).Sub(newBase))
	if err != nil {
		return nil, err
	}
	if baseOut == 0 {
		return nil, ErrInvalidAmount
	}
	if baseOut > reserves.BaseReserve {
		return nil, ErrInsufficientLiquidity
	}

	oldPrice, err := c.CurrentPrice(reserves)
	if err != nil {
		return nil, err
	}
	newPrice, err := ratioPrice(newBase, newToken)
	if err != nil {
		return nil, err
	}

	return &Calculation{
		TokenAmount:    tokenAmountIn,
		BaseAmount:     baseOut,
		NewSupply:      reserves.CirculatingSupply - tokenAmountIn,
		PricePerToken:  newPrice,
		PriceImpactBps: priceImpactBps(oldPrice, newPrice),
	}, nil
}

// CurrentPrice is the Precision-scaled reserve ratio base/token.
func (c *ConstantProduct) CurrentPrice(reserves domain.ReserveState) (uint64, error) {
	return ratioPrice(intFromU64(reserves.BaseReserve), intFromU64(reserves.TokenReserve))
}

// MarketCap descales the ratio price back to lamports:
// circulating * price / Precision, saturating.
func (c *ConstantProduct) MarketCap(reserves domain.ReserveState) (uint64, error) {
	price, err := c.CurrentPrice(reserves)
	if err != nil {
		return 0, err
	}
	cap := intFromU64(price).
		Mul(intFromU64(reserves.CirculatingSupply)).
		Quo(precisionInt)
	return saturatingU64(cap), nil
}

// ratioPrice computes base*Precision/token with the MinPrice floor.
func ratioPrice(base, token sdkmath.Int) (uint64, error) {
	scaled, err := checkedMul(base, precisionInt)
	if err != nil {
		return 0, err
	}
	ratio, err := checkedQuo(scaled, token)
	if err != nil {
		return 0, err
	}
	price, err := toU64(ratio)
	if err != nil {
		return 0, err
	}
	if price < MinPrice {
		price = MinPrice
	}
	return price, nil
}
