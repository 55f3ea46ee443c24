package domain

// CurveType identifies the pricing formula bound to a market.
type CurveType string

const (
	CurveLinear          CurveType = "LINEAR"           // price = initial + slope*s
	CurveExponential     CurveType = "EXPONENTIAL"      // price = initial * e^(growth*s)
	CurveLogarithmic     CurveType = "LOGARITHMIC"      // price = initial + scale*ln(s+1)
	CurveSigmoid         CurveType = "SIGMOID"          // price = min + (max-min)/(1+e^(-k(s-mid)))
	CurveConstantProduct CurveType = "CONSTANT_PRODUCT" // base * token = k
)

// ValidCurveTypes lists every supported curve type.
var ValidCurveTypes = []CurveType{
	CurveLinear,
	CurveExponential,
	CurveLogarithmic,
	CurveSigmoid,
	CurveConstantProduct,
}

// CurveParameters is the immutable pricing configuration of a market.
// All prices are in lamports per whole token; all fractional shape
// parameters are fixed-point integers scaled by 10^9 (see curve.Precision).
// Validated once at market creation and never mutated afterwards.
type CurveParameters struct {
	CurveType CurveType

	// InitialPrice is the price at zero circulating supply (lamports).
	InitialPrice uint64

	// Slope is the linear price increase in lamports per supply subunit.
	// Used by LINEAR.
	Slope uint64

	// GrowthFactor is the exponential growth rate per token, 10^9-scaled.
	// Used by EXPONENTIAL.
	GrowthFactor uint64

	// Scale is the logarithm multiplier, 10^9-scaled. Used by LOGARITHMIC.
	Scale uint64

	// Steepness controls the sigmoid transition sharpness, 10^9-scaled.
	// Midpoint is the supply at which the sigmoid crosses its center.
	// MaxPrice is the sigmoid upper asymptote (lamports); InitialPrice is
	// the lower one. Used by SIGMOID.
	Steepness uint64
	Midpoint  uint64
	MaxPrice  uint64

	// GraduationThreshold is the market capitalization (lamports) at which
	// the market becomes eligible for migration to an external venue.
	GraduationThreshold uint64

	// VolatilityDamper scales down computed trade sizes, 10^9-scaled,
	// valid range [0.1, 2.0] (i.e. [1e8, 2e9]).
	VolatilityDamper uint64

	// InitialSupply is the token amount seeded into the market's reserve
	// at creation. MaxSupply caps circulating supply for all curve types.
	InitialSupply uint64
	MaxSupply     uint64
}

// VolatilityDamper bounds, 10^9-scaled.
const (
	VolatilityDamperMin = 100_000_000   // 0.1
	VolatilityDamperMax = 2_000_000_000 // 2.0
)
