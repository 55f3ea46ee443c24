package curve

import (
	"pump-launchpad/internal/domain"
)

// Exponential implements price(s) = basePrice * e^(growth*s).
//
// Buys use an average-price approximation (spot price blended with a
// first-order growth correction) rather than the exact integral; the
// volatility damper then scales the estimated token amount down. This is
// a documented precision trade-off, not exact integration.
type Exponential struct {
	basePrice    uint64
	growthFactor uint64 // Precision-scaled growth per token unit
	maxSupply    uint64
	maxPrice     uint64
	damper       uint64 // Precision-scaled, [0.1, 2.0]
}

// NewExponential validates parameters and builds an exponential curve.
func NewExponential(basePrice, growthFactor, maxSupply, maxPrice, damper uint64) (*Exponential, error) {
	if basePrice < MinPrice || growthFactor == 0 {
		return nil, ErrInvalidCurveParams
	}
	if maxSupply == 0 || maxSupply > MaxSupplyCap {
		return nil, ErrInvalidCurveParams
	}
	if damper < domain.VolatilityDamperMin || damper > domain.VolatilityDamperMax {
		return nil, ErrInvalidCurveParams
	}
	return &Exponential{
		basePrice:    basePrice,
		growthFactor: growthFactor,
		maxSupply:    maxSupply,
		maxPrice:     maxPrice,
		damper:       damper,
	}, nil
}

func (c *Exponential) QuoteBuy(reserves domain.ReserveState, baseAmountIn uint64) (*Calculation, error) {
	if err := checkBuyInput(reserves, baseAmountIn, c.maxSupply); err != nil {
		return nil, err
	}

	currentPrice, err := c.CurrentPrice(reserves)
	if err != nil {
		return nil, err
	}

	// averagePrice = spot * (1 + growth*amount/(2*Precision))
	growthRate, err := checkedMul(intFromU64(c.growthFactor), intFromU64(baseAmountIn))
	if err != nil {
		return nil, err
	}
	growthRate = growthRate.Quo(precisionInt)

	correction, err := checkedMul(intFromU64(currentPrice), growthRate)
	if err != nil {
		return nil, err
	}
	averagePrice := intFromU64(currentPrice).Add(correction.Quo(precisionInt.Mul(twoInt)))

	// Subunits filled: amount * Precision / averagePrice.
	scaledIn, err := checkedMul(intFromU64(baseAmountIn), precisionInt)
	if err != nil {
		return nil, err
	}
	rawTokens, err := checkedQuo(scaledIn, averagePrice)
	if err != nil {
		return nil, err
	}

	// Damper > 1.0 shrinks the fill, < 1.0 loosens it.
	damped, err := checkedMul(rawTokens, precisionInt)
	if err != nil {
		return nil, err
	}
	tokenAmount, err := toU64(damped.Quo(intFromU64(c.damper)))
	if err != nil {
		return nil, err
	}
	if tokenAmount == 0 {
		return nil, ErrInvalidAmount
	}
	if tokenAmount > reserves.TokenReserve {
		return nil, ErrInsufficientLiquidity
	}

	newSupply := reserves.CirculatingSupply + tokenAmount
	if newSupply < reserves.CirculatingSupply || newSupply > c.maxSupply {
		return nil, ErrInsufficientLiquidity
	}

	newPrice, err := c.priceAt(newSupply)
	if err != nil {
		return nil, err
	}
	return &Calculation{
		TokenAmount:    tokenAmount,
		BaseAmount:     baseAmountIn,
		NewSupply:      newSupply,
		PricePerToken:  newPrice,
		PriceImpactBps: priceImpactBps(currentPrice, newPrice),
	}, nil
}

func (c *Exponential) QuoteSell(reserves domain.ReserveState, tokenAmountIn uint64) (*Calculation, error) {
	if err := checkSellInput(reserves, tokenAmountIn); err != nil {
		return nil, err
	}

	supply := reserves.CirculatingSupply
	newSupply := supply - tokenAmountIn

	currentPrice, err := c.priceAt(supply)
	if err != nil {
		return nil, err
	}
	newPrice, err := c.priceAt(newSupply)
	if err != nil {
		return nil, err
	}

	averagePrice := intFromU64(currentPrice).Add(intFromU64(newPrice)).Quo(twoInt)
	baseOut, err := checkedMul(intFromU64(tokenAmountIn), averagePrice)
	if err != nil {
		return nil, err
	}
	baseAmount, err := toU64(baseOut.Quo(precisionInt))
	if err != nil {
		return nil, err
	}
	if baseAmount > reserves.BaseReserve {
		return nil, ErrInsufficientLiquidity
	}

	return &Calculation{
		TokenAmount:    tokenAmountIn,
		BaseAmount:     baseAmount,
		NewSupply:      newSupply,
		PricePerToken:  newPrice,
		PriceImpactBps: priceImpactBps(currentPrice, newPrice),
	}, nil
}

func (c *Exponential) CurrentPrice(reserves domain.ReserveState) (uint64, error) {
	return c.priceAt(reserves.CirculatingSupply)
}

func (c *Exponential) MarketCap(reserves domain.ReserveState) (uint64, error) {
	return marketCapOf(c, reserves)
}

func (c *Exponential) priceAt(supply uint64) (uint64, error) {
	exponent, err := checkedMul(intFromU64(c.growthFactor), intFromU64(supply))
	if err != nil {
		return 0, err
	}
	exponent = exponent.Quo(precisionInt)

	scaled, err := checkedMul(intFromU64(c.basePrice), expFixed(exponent))
	if err != nil {
		return 0, err
	}
	price, err := toU64(scaled.Quo(precisionInt))
	if err != nil {
		return 0, err
	}
	return clampPrice(price, MinPrice, c.maxPrice), nil
}
