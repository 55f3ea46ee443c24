package curve

import (
	sdkmath "cosmossdk.io/math"
)

// Fixed-point constants. Fractional quantities (growth factors, scales,
// dampers, exp/ln arguments) are integers scaled by Precision.
const (
	// Precision is the fixed-point scale: 10^9 subunits per whole unit.
	Precision uint64 = 1_000_000_000

	// MaxSupplyCap bounds token supply for every curve type.
	MaxSupplyCap uint64 = 1_000_000_000_000_000

	// MinPrice is the price floor in lamports.
	MinPrice uint64 = 1

	// MaxImpactBps is the price-impact ceiling (100%).
	MaxImpactBps uint64 = 10_000

	// ln(2) scaled by Precision.
	ln2Scaled int64 = 693_147_180

	// expArgCap clamps exponential arguments to ±10.0 (scaled).
	expArgCap int64 = 10 * 1_000_000_000

	// maxIntegrationSteps bounds the iterative buy integration used by
	// the logarithmic and sigmoid curves.
	maxIntegrationSteps = 50_000
)

var (
	zeroInt      = sdkmath.ZeroInt()
	oneInt       = sdkmath.OneInt()
	twoInt       = sdkmath.NewInt(2)
	precisionInt = sdkmath.NewIntFromUint64(Precision)
)

// intFromU64 converts a uint64 into checked wide arithmetic.
func intFromU64(v uint64) sdkmath.Int {
	return sdkmath.NewIntFromUint64(v)
}

// toU64 converts a wide result back to uint64, failing instead of wrapping.
func toU64(v sdkmath.Int) (uint64, error) {
	if v.IsNegative() {
		return 0, ErrMathUnderflow
	}
	if !v.IsUint64() {
		return 0, ErrMathOverflow
	}
	return v.Uint64(), nil
}

// sdkmath.Int panics beyond 256 bits; keep checked products inside that.
const maxIntBits = 255

// checkedMul multiplies with an explicit overflow error instead of a panic.
func checkedMul(a, b sdkmath.Int) (sdkmath.Int, error) {
	if a.BigInt().BitLen()+b.BigInt().BitLen() > maxIntBits {
		return zeroInt, ErrMathOverflow
	}
	return a.Mul(b), nil
}

// checkedQuo divides with an explicit error on a zero divisor.
func checkedQuo(a, b sdkmath.Int) (sdkmath.Int, error) {
	if b.IsZero() {
		return zeroInt, ErrDivisionByZero
	}
	return a.Quo(b), nil
}

// isqrt returns the integer square root of n (Newton's method,
// rounding down).
func isqrt(n sdkmath.Int) sdkmath.Int {
	if n.Sign() <= 0 {
		return zeroInt
	}

	x := n
	y := n.Add(oneInt).Quo(twoInt)
	for y.LT(x) {
		x = y
		y = x.Add(n.Quo(x)).Quo(twoInt)
	}
	return x
}

// expFixed evaluates e^x for a Precision-scaled argument using a
// four-term Taylor series. Arguments are clamped to ±10.0; negative
// arguments go through the reciprocal identity e^-x = 1/e^x. The result
// is Precision-scaled and always >= 1 subunit.
func expFixed(x sdkmath.Int) sdkmath.Int {
	limit := sdkmath.NewInt(expArgCap)
	if x.GT(limit) {
		x = limit
	} else if x.Neg().GT(limit) {
		x = limit.Neg()
	}

	if x.IsZero() {
		return precisionInt
	}

	if x.IsNegative() {
		pos := expFixed(x.Neg())
		// Precision^2 / e^x, floored at 1 subunit.
		inv := precisionInt.Mul(precisionInt).Quo(pos)
		if inv.IsZero() {
			return oneInt
		}
		return inv
	}

	// 1 + x + x^2/2! + x^3/3! + x^4/4!, terms built iteratively.
	result := precisionInt
	term := x
	result = result.Add(term)
	for k := int64(2); k <= 4; k++ {
		term = term.Mul(x).Quo(precisionInt.Mul(sdkmath.NewInt(k)))
		result = result.Add(term)
	}
	return result
}

// lnFixed approximates ln(x+1) in Precision-scaled units, where x is a
// raw supply value interpreted in Precision subunits. Range reduction by
// powers of two brings the argument into [1, 2); a four-term alternating
// series covers the remainder. Result is clamped to >= 0.
func lnFixed(x uint64) (sdkmath.Int, error) {
	if x == ^uint64(0) {
		return zeroInt, ErrMathOverflow
	}
	if x == 0 {
		return zeroInt, nil
	}

	value := intFromU64(x + 1)
	twoPrecision := precisionInt.Mul(twoInt)

	powerOfTwo := int64(0)
	for value.GTE(twoPrecision) {
		value = value.Quo(twoInt)
		powerOfTwo++
	}

	result := sdkmath.NewInt(ln2Scaled).Mul(sdkmath.NewInt(powerOfTwo))

	// value is now in [Precision, 2*Precision) when x+1 >= Precision;
	// below that range the fractional series contributes nothing.
	if value.GTE(precisionInt) {
		z := value.Sub(precisionInt)
		if z.IsPositive() {
			// z - z^2/2 + z^3/3 - z^4/4
			z2 := z.Mul(z).Quo(precisionInt)
			z3 := z2.Mul(z).Quo(precisionInt)
			z4 := z3.Mul(z).Quo(precisionInt)

			series := z.
				Sub(z2.Quo(twoInt)).
				Add(z3.Quo(sdkmath.NewInt(3))).
				Sub(z4.Quo(sdkmath.NewInt(4)))
			result = result.Add(series)
		}
	}

	if result.IsNegative() {
		return zeroInt, nil
	}
	return result, nil
}

// priceImpactBps returns |newPrice-oldPrice| * 10000 / oldPrice, capped
// at 10000. A zero old price is defined as full impact.
func priceImpactBps(oldPrice, newPrice uint64) uint64 {
	if oldPrice == 0 {
		return MaxImpactBps
	}

	var diff uint64
	if newPrice > oldPrice {
		diff = newPrice - oldPrice
	} else {
		diff = oldPrice - newPrice
	}

	impact := intFromU64(diff).
		Mul(intFromU64(MaxImpactBps)).
		Quo(intFromU64(oldPrice))
	if !impact.IsUint64() || impact.Uint64() > MaxImpactBps {
		return MaxImpactBps
	}
	return impact.Uint64()
}

// clampPrice bounds a price to [min, max]. A zero max means unbounded
// above (only the floor applies).
func clampPrice(price, min, max uint64) uint64 {
	if price < min {
		return min
	}
	if max > 0 && price > max {
		return max
	}
	return price
}

// saturatingU64 converts a wide value to uint64, saturating at the
// ceiling instead of failing. Used for market capitalization.
func saturatingU64(v sdkmath.Int) uint64 {
	if v.IsNegative() {
		return 0
	}
	if !v.IsUint64() {
		return ^uint64(0)
	}
	return v.Uint64()
}
