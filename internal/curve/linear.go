package curve

import (
	"pump-launchpad/internal/domain"
)

// Linear implements price(s) = initialPrice + slope*s.
//
// Buy amounts come from the closed-form solution of the quadratic that
// integrating the price over the traded range produces, so the average
// price paid matches the area under the curve exactly.
type Linear struct {
	initialPrice uint64 // lamports per whole token at zero supply
	slope        uint64 // price increase in lamports per supply subunit
	maxSupply    uint64
	maxPrice     uint64 // price ceiling (graduation threshold)
}

// NewLinear validates parameters and builds a linear curve.
func NewLinear(initialPrice, slope, maxSupply, maxPrice uint64) (*Linear, error) {
	if initialPrice < MinPrice || slope == 0 {
		return nil, ErrInvalidCurveParams
	}
	if maxSupply == 0 || maxSupply > MaxSupplyCap {
		return nil, ErrInvalidCurveParams
	}
	return &Linear{
		initialPrice: initialPrice,
		slope:        slope,
		maxSupply:    maxSupply,
		maxPrice:     maxPrice,
	}, nil
}

func (c *Linear) QuoteBuy(reserves domain.ReserveState, baseAmountIn uint64) (*Calculation, error) {
	if err := checkBuyInput(reserves, baseAmountIn, c.maxSupply); err != nil {
		return nil, err
	}

	supply := reserves.CirculatingSupply
	currentPrice, err := c.CurrentPrice(reserves)
	if err != nil {
		return nil, err
	}

	// Cost of d subunits from supply s is the area under the curve in
	// lamports: (initial*d + slope*(s*d + d^2/2)) / Precision. Solving
	// for d: d = (sqrt((initial+slope*s)^2 + 2*slope*amount*Precision)
	//             - initial - slope*s) / slope
	a := intFromU64(c.initialPrice)
	b := intFromU64(c.slope)
	s := intFromU64(supply)
	x := intFromU64(baseAmountIn)

	bs, err := checkedMul(b, s)
	if err != nil {
		return nil, err
	}
	spot := a.Add(bs) // initial + slope*s

	spotSq, err := checkedMul(spot, spot)
	if err != nil {
		return nil, err
	}
	twoBX, err := checkedMul(b.Mul(twoInt), x)
	if err != nil {
		return nil, err
	}
	twoBX, err = checkedMul(twoBX, precisionInt)
	if err != nil {
		return nil, err
	}
	discriminant := spotSq.Add(twoBX)

	delta, err := checkedQuo(isqrt(discriminant).Sub(spot), b)
	if err != nil {
		return nil, err
	}

	tokenAmount, err := toU64(delta)
	if err != nil {
		return nil, err
	}
	if tokenAmount == 0 {
		return nil, ErrInvalidAmount
	}
	if tokenAmount > reserves.TokenReserve {
		return nil, ErrInsufficientLiquidity
	}

	newSupply := supply + tokenAmount
	if newSupply < supply || newSupply > c.maxSupply {
		return nil, ErrInsufficientLiquidity
	}

	newPrice := c.priceAt(newSupply)
	return &Calculation{
		TokenAmount:    tokenAmount,
		BaseAmount:     baseAmountIn,
		NewSupply:      newSupply,
		PricePerToken:  newPrice,
		PriceImpactBps: priceImpactBps(currentPrice, newPrice),
	}, nil
}

func (c *Linear) QuoteSell(reserves domain.ReserveState, tokenAmountIn uint64) (*Calculation, error) {
	if err := checkSellInput(reserves, tokenAmountIn); err != nil {
		return nil, err
	}

	supply := reserves.CirculatingSupply
	newSupply := supply - tokenAmountIn

	baseAmount, err := integrateLinear(c.initialPrice, c.slope, newSupply, supply)
	if err != nil {
		return nil, err
	}
	if baseAmount > reserves.BaseReserve {
		return nil, ErrInsufficientLiquidity
	}

	currentPrice := c.priceAt(supply)
	newPrice := c.priceAt(newSupply)
	return &Calculation{
		TokenAmount:    tokenAmountIn,
		BaseAmount:     baseAmount,
		NewSupply:      newSupply,
		PricePerToken:  newPrice,
		PriceImpactBps: priceImpactBps(currentPrice, newPrice),
	}, nil
}

func (c *Linear) CurrentPrice(reserves domain.ReserveState) (uint64, error) {
	product, err := checkedMul(intFromU64(c.slope), intFromU64(reserves.CirculatingSupply))
	if err != nil {
		return 0, err
	}
	price, err := toU64(product.Add(intFromU64(c.initialPrice)))
	if err != nil {
		return 0, err
	}
	return clampPrice(price, MinPrice, c.maxPrice), nil
}

func (c *Linear) MarketCap(reserves domain.ReserveState) (uint64, error) {
	return marketCapOf(c, reserves)
}

// priceAt is CurrentPrice for an arbitrary supply, saturating instead of
// failing since it only feeds impact/result fields.
func (c *Linear) priceAt(supply uint64) uint64 {
	p := intFromU64(c.slope).Mul(intFromU64(supply)).Add(intFromU64(c.initialPrice))
	return clampPrice(saturatingU64(p), MinPrice, c.maxPrice)
}

// integrateLinear computes the lamport value of the supply range
// [from, to]: (initial*d + slope*(from*d + d^2/2)) / Precision where
// d = to-from subunits.
func integrateLinear(initial, slope, from, to uint64) (uint64, error) {
	if to < from {
		return 0, ErrInvalidAmount
	}

	a := intFromU64(initial)
	b := intFromU64(slope)
	f := intFromU64(from)
	d := intFromU64(to - from)

	linearPart, err := checkedMul(a, d)
	if err != nil {
		return 0, err
	}

	fd, err := checkedMul(f, d)
	if err != nil {
		return 0, err
	}
	dSq, err := checkedMul(d, d)
	if err != nil {
		return 0, err
	}
	quadraticPart, err := checkedMul(b, fd.Add(dSq.Quo(twoInt)))
	if err != nil {
		return 0, err
	}

	return toU64(linearPart.Add(quadraticPart).Quo(precisionInt))
}
