package curve

import (
	"pump-launchpad/internal/domain"
)

// Logarithmic implements price(s) = basePrice + scale*ln(s+1): fast early
// growth with diminishing returns. Buys integrate numerically in ~1%
// supply steps since the log integral has no clean fixed-point form.
type Logarithmic struct {
	basePrice uint64
	scale     uint64 // Precision-scaled logarithm multiplier
	maxSupply uint64
	maxPrice  uint64
}

// NewLogarithmic validates parameters and builds a logarithmic curve.
func NewLogarithmic(basePrice, scale, maxSupply, maxPrice uint64) (*Logarithmic, error) {
	if basePrice < MinPrice || scale == 0 {
		return nil, ErrInvalidCurveParams
	}
	if maxSupply == 0 || maxSupply > MaxSupplyCap {
		return nil, ErrInvalidCurveParams
	}
	return &Logarithmic{
		basePrice: basePrice,
		scale:     scale,
		maxSupply: maxSupply,
		maxPrice:  maxPrice,
	}, nil
}

func (c *Logarithmic) QuoteBuy(reserves domain.ReserveState, baseAmountIn uint64) (*Calculation, error) {
	if err := checkBuyInput(reserves, baseAmountIn, c.maxSupply); err != nil {
		return nil, err
	}

	supply := reserves.CirculatingSupply
	currentPrice, err := c.priceAt(supply)
	if err != nil {
		return nil, err
	}

	tokenAmount, err := integrateBuySteps(c.priceAt, supply, c.maxSupply, baseAmountIn)
	if err != nil {
		return nil, err
	}
	if tokenAmount > reserves.TokenReserve {
		return nil, ErrInsufficientLiquidity
	}

	newSupply := supply + tokenAmount
	if newSupply < supply || newSupply > c.maxSupply {
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

func (c *Logarithmic) QuoteSell(reserves domain.ReserveState, tokenAmountIn uint64) (*Calculation, error) {
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

	baseOut, err := checkedMul(intFromU64(tokenAmountIn), averageOf(currentPrice, newPrice))
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

func (c *Logarithmic) CurrentPrice(reserves domain.ReserveState) (uint64, error) {
	return c.priceAt(reserves.CirculatingSupply)
}

func (c *Logarithmic) MarketCap(reserves domain.ReserveState) (uint64, error) {
	return marketCapOf(c, reserves)
}

func (c *Logarithmic) priceAt(supply uint64) (uint64, error) {
	lnValue, err := lnFixed(supply)
	if err != nil {
		return 0, err
	}

	addition, err := checkedMul(intFromU64(c.scale), lnValue)
	if err != nil {
		return 0, err
	}
	price, err := toU64(addition.Quo(precisionInt).Add(intFromU64(c.basePrice)))
	if err != nil {
		return 0, err
	}
	return clampPrice(price, MinPrice, c.maxPrice), nil
}
