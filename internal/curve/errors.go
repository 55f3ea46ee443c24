package curve

import "errors"

// Curve math errors. All arithmetic is checked; wraparound is never silent.
var (
	// ErrInvalidAmount is returned for non-positive trade amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurveParams is returned when curve parameters are outside
	// their documented bounds.
	ErrInvalidCurveParams = errors.New("invalid bonding curve parameters")

	// ErrInsufficientLiquidity is returned when the curve has no remaining
	// capacity or the quoted amount exceeds the available reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrInsufficientBalance is returned when a sell exceeds the
	// circulating supply.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrMathOverflow is returned when a checked operation exceeds the
	// representable range.
	ErrMathOverflow = errors.New("mathematical overflow")

	// ErrMathUnderflow is returned when a checked subtraction would go
	// negative.
	ErrMathUnderflow = errors.New("mathematical underflow")

	// ErrDivisionByZero is returned on division by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrMathDomain is returned when a transcendental approximation is
	// evaluated outside its valid domain.
	ErrMathDomain = errors.New("math domain error")
)
