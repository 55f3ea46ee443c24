package curve

import (
	sdkmath "cosmossdk.io/math"

	"pump-launchpad/internal/domain"
)

// Sigmoid implements price(s) = min + (max-min)/(1 + e^(-k(s-midpoint))):
// slow growth early, steep around the midpoint, flattening towards the
// upper asymptote. Shares the stepping buy integration with Logarithmic.
type Sigmoid struct {
	minPrice  uint64
	maxPrice  uint64
	steepness uint64 // Precision-scaled
	midpoint  uint64 // supply at the inflection point
	maxSupply uint64
}

// NewSigmoid validates parameters and builds a sigmoid curve.
func NewSigmoid(minPrice, maxPrice, steepness, midpoint, maxSupply uint64) (*Sigmoid, error) {
	if minPrice < MinPrice || maxPrice <= minPrice || steepness == 0 {
		return nil, ErrInvalidCurveParams
	}
	if maxSupply == 0 || maxSupply > MaxSupplyCap || midpoint > maxSupply {
		return nil, ErrInvalidCurveParams
	}
	return &Sigmoid{
		minPrice:  minPrice,
		maxPrice:  maxPrice,
		steepness: steepness,
		midpoint:  midpoint,
		maxSupply: maxSupply,
	}, nil
}

func (c *Sigmoid) QuoteBuy(reserves domain.ReserveState, baseAmountIn uint64) (*Calculation, error) {
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

func (c *Sigmoid) QuoteSell(reserves domain.ReserveState, tokenAmountIn uint64) (*Calculation, error) {
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

func (c *Sigmoid) CurrentPrice(reserves domain.ReserveState) (uint64, error) {
	return c.priceAt(reserves.CirculatingSupply)
}

func (c *Sigmoid) MarketCap(reserves domain.ReserveState) (uint64, error) {
	return marketCapOf(c, reserves)
}

func (c *Sigmoid) priceAt(supply uint64) (uint64, error) {
	// exponent = -steepness * (supply - midpoint) / Precision, signed.
	var supplyDiff sdkmath.Int
	if supply >= c.midpoint {
		supplyDiff = intFromU64(supply - c.midpoint)
	} else {
		supplyDiff = intFromU64(c.midpoint - supply).Neg()
	}

	exponent, err := checkedMul(intFromU64(c.steepness), supplyDiff)
	if err != nil {
		return 0, err
	}
	exponent = exponent.Quo(precisionInt).Neg()

	// price = min + range / (1 + e^exponent)
	denominator := precisionInt.Add(expFixed(exponent))
	priceRange := intFromU64(c.maxPrice - c.minPrice)

	scaledRange, err := checkedMul(priceRange, precisionInt)
	if err != nil {
		return 0, err
	}
	addition, err := toU64(scaledRange.Quo(denominator))
	if err != nil {
		return 0, err
	}

	price := c.minPrice + addition
	if price < c.minPrice { // wrapped
		return 0, ErrMathOverflow
	}
	return clampPrice(price, c.minPrice, c.maxPrice), nil
}
