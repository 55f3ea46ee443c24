package curve

import (
	sdkmath "cosmossdk.io/math"
)

// integrateBuySteps numerically integrates a buy against an arbitrary
// price function by walking the supply axis. Used by the curve types
// without a usable closed-form integral. Each step is sized to spend
// roughly 1% of the remaining budget at the local price, bounded below
// by 1000 subunits and above by 1% of the current supply so curvature
// is still sampled; that keeps the iteration count bounded for any
// budget. Returns the total token fill; the final step is filled pro
// rata.
func integrateBuySteps(priceAt func(uint64) (uint64, error), supply, maxSupply, baseAmountIn uint64) (uint64, error) {
	remaining := intFromU64(baseAmountIn)
	var totalTokens uint64

	for steps := 0; remaining.IsPositive() && supply < maxSupply; steps++ {
		if steps >= maxIntegrationSteps {
			return 0, ErrMathOverflow
		}

		price, err := priceAt(supply)
		if err != nil {
			return 0, err
		}
		if price == 0 {
			price = MinPrice
		}

		// remaining * Precision / (100 * price) subunits per step.
		budgetStep, err := checkedMul(remaining, precisionInt)
		if err != nil {
			return 0, err
		}
		step := saturatingU64(budgetStep.Quo(intFromU64(price).MulRaw(100)))
		if curvatureCap := supply / 100; curvatureCap >= 1000 && step > curvatureCap {
			step = curvatureCap
		}
		if step < 1000 {
			step = 1000
		}
		if rest := maxSupply - supply; step > rest {
			step = rest
		}

		cost, err := checkedMul(intFromU64(step), intFromU64(price))
		if err != nil {
			return 0, err
		}
		cost = cost.Quo(precisionInt)
		if cost.IsZero() {
			cost = oneInt
		}

		if cost.GT(remaining) {
			// Partial final step, pro rata.
			partial, err := checkedMul(remaining, intFromU64(step))
			if err != nil {
				return 0, err
			}
			partialTokens, err := toU64(partial.Quo(cost))
			if err != nil {
				return 0, err
			}
			totalTokens += partialTokens
			break
		}

		remaining = remaining.Sub(cost)
		next := totalTokens + step
		if next < totalTokens {
			return 0, ErrMathOverflow
		}
		totalTokens = next
		supply += step
	}

	if totalTokens == 0 {
		return 0, ErrInsufficientLiquidity
	}
	return totalTokens, nil
}

// averageOf returns (a+b)/2 without overflow.
func averageOf(a, b uint64) sdkmath.Int {
	return intFromU64(a).Add(intFromU64(b)).Quo(twoInt)
}
