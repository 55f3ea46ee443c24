package engine

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"pump-launchpad/internal/curve"
	"pump-launchpad/internal/domain"
)

// Engine binds a curve model to a market's parameters and answers pure
// pricing questions over a reserve snapshot. It holds no market state
// itself, so one instance serves any number of concurrent readers.
type Engine struct {
	model     curve.Model
	threshold uint64 // graduation capitalization in lamports
}

// New validates the parameters and builds the pricing engine for them.
func New(params domain.CurveParameters) (*Engine, error) {
	model, err := curve.FromParams(params)
	if err != nil {
		return nil, fmt.Errorf("build curve model: %w", err)
	}
	return &Engine{
		model:     model,
		threshold: params.GraduationThreshold,
	}, nil
}

// Model exposes the underlying curve for callers that need variant-
// specific behavior (the constant-product invariant, mainly).
func (e *Engine) Model() curve.Model {
	return e.model
}

// Quote prices a prospective trade against a reserve snapshot without
// mutating anything.
func (e *Engine) Quote(reserves domain.ReserveState, direction domain.TradeDirection, amountIn uint64) (*curve.Calculation, error) {
	switch direction {
	case domain.TradeBuy:
		return e.model.QuoteBuy(reserves, amountIn)
	case domain.TradeSell:
		return e.model.QuoteSell(reserves, amountIn)
	default:
		return nil, fmt.Errorf("%w: direction %q", curve.ErrInvalidAmount, direction)
	}
}

// CurrentPrice returns the spot price for the snapshot.
func (e *Engine) CurrentPrice(reserves domain.ReserveState) (uint64, error) {
	return e.model.CurrentPrice(reserves)
}

// Capitalization returns the market capitalization in lamports,
// saturating at the uint64 ceiling.
func (e *Engine) Capitalization(reserves domain.ReserveState) (uint64, error) {
	return e.model.MarketCap(reserves)
}

// GraduationProgress reports capitalization over the graduation
// threshold as a Precision-scaled fraction clamped to [0, 1].
func (e *Engine) GraduationProgress(reserves domain.ReserveState) (uint64, error) {
	if e.threshold == 0 {
		return curve.Precision, nil
	}

	cap, err := e.Capitalization(reserves)
	if err != nil {
		return 0, err
	}
	if cap >= e.threshold {
		return curve.Precision, nil
	}

	progress := sdkmath.NewIntFromUint64(cap).
		MulRaw(int64(curve.Precision)).
		Quo(sdkmath.NewIntFromUint64(e.threshold))
	return progress.Uint64(), nil
}
