package curve

import (
	"fmt"

	"pump-launchpad/internal/domain"
)

// FromParams builds the Model for a market's curve parameters. Dispatch
// is exhaustive over the curve type set; an unknown type is a
// configuration error, never a silent fallback.
func FromParams(params domain.CurveParameters) (Model, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	maxSupply := effectiveMaxSupply(params)

	switch params.CurveType {
	case domain.CurveLinear:
		return NewLinear(params.InitialPrice, params.Slope, maxSupply, params.GraduationThreshold)

	case domain.CurveExponential:
		return NewExponential(params.InitialPrice, params.GrowthFactor, maxSupply, params.GraduationThreshold, params.VolatilityDamper)

	case domain.CurveLogarithmic:
		return NewLogarithmic(params.InitialPrice, params.Scale, maxSupply, params.GraduationThreshold)

	case domain.CurveSigmoid:
		midpoint := params.Midpoint
		if midpoint == 0 {
			midpoint = maxSupply / 2
		}
		maxPrice := params.MaxPrice
		if maxPrice == 0 {
			// Default upper asymptote: 100x the floor.
			maxPrice = saturatingU64(intFromU64(params.InitialPrice).Mul(intFromU64(100)))
		}
		return NewSigmoid(params.InitialPrice, maxPrice, params.Steepness, midpoint, maxSupply)

	case domain.CurveConstantProduct:
		return NewConstantProduct(), nil

	default:
		return nil, fmt.Errorf("%w: unknown curve type %q", ErrInvalidCurveParams, params.CurveType)
	}
}

// ValidateParams enforces the creation-time parameter bounds shared by
// every curve type plus the type-specific shape bounds.
func ValidateParams(params domain.CurveParameters) error {
	if params.InitialPrice < MinPrice {
		return fmt.Errorf("%w: initial price below minimum", ErrInvalidCurveParams)
	}
	if params.GraduationThreshold <= params.InitialPrice {
		return fmt.Errorf("%w: graduation threshold must exceed initial price", ErrInvalidCurveParams)
	}
	if params.VolatilityDamper < domain.VolatilityDamperMin || params.VolatilityDamper > domain.VolatilityDamperMax {
		return fmt.Errorf("%w: volatility damper outside [0.1, 2.0]", ErrInvalidCurveParams)
	}
	if params.InitialSupply == 0 || params.InitialSupply > MaxSupplyCap {
		return fmt.Errorf("%w: initial supply outside (0, max]", ErrInvalidCurveParams)
	}
	if params.MaxSupply > MaxSupplyCap {
		return fmt.Errorf("%w: max supply above cap", ErrInvalidCurveParams)
	}

	switch params.CurveType {
	case domain.CurveLinear:
		if params.Slope == 0 {
			return fmt.Errorf("%w: linear curve requires a positive slope", ErrInvalidCurveParams)
		}
	case domain.CurveExponential:
		if params.GrowthFactor == 0 {
			return fmt.Errorf("%w: exponential curve requires a positive growth factor", ErrInvalidCurveParams)
		}
	case domain.CurveLogarithmic:
		if params.Scale == 0 {
			return fmt.Errorf("%w: logarithmic curve requires a positive scale", ErrInvalidCurveParams)
		}
	case domain.CurveSigmoid:
		if params.Steepness == 0 {
			return fmt.Errorf("%w: sigmoid curve requires a positive steepness", ErrInvalidCurveParams)
		}
		if params.MaxPrice != 0 && params.MaxPrice <= params.InitialPrice {
			return fmt.Errorf("%w: sigmoid max price must exceed the floor", ErrInvalidCurveParams)
		}
	case domain.CurveConstantProduct:
		// Reserve-driven; nothing beyond the shared bounds.
	default:
		return fmt.Errorf("%w: unknown curve type %q", ErrInvalidCurveParams, params.CurveType)
	}

	return nil
}

// effectiveMaxSupply defaults the supply cap to 10x the initial seed
// when not configured, bounded by the global cap.
func effectiveMaxSupply(params domain.CurveParameters) uint64 {
	if params.MaxSupply > 0 {
		return params.MaxSupply
	}
	max := saturatingU64(intFromU64(params.InitialSupply).Mul(intFromU64(10)))
	if max > MaxSupplyCap {
		max = MaxSupplyCap
	}
	return max
}
