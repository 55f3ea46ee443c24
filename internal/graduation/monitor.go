package graduation

import (
	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/engine"
)

// Monitor evaluates graduation eligibility from a reserve snapshot. It
// is pure: deciding eligibility and acting on it (freezing the market,
// migrating liquidity) are separate concerns, and the migration itself
// happens outside this module.
type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// Evaluate reports whether the market's capitalization has reached its
// graduation threshold, along with the scaled progress toward it.
// Thresholds differ per market, so the threshold travels with the call.
func (m *Monitor) Evaluate(marketID string, eng *engine.Engine, reserves domain.ReserveState, threshold uint64) (domain.GraduationSignal, error) {
	cap, err := eng.Capitalization(reserves)
	if err != nil {
		return domain.GraduationSignal{}, err
	}
	progress, err := eng.GraduationProgress(reserves)
	if err != nil {
		return domain.GraduationSignal{}, err
	}

	return domain.GraduationSignal{
		MarketID:       marketID,
		Eligible:       threshold > 0 && cap >= threshold,
		Capitalization: cap,
		ProgressScaled: progress,
	}, nil
}
