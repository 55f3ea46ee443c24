package graduation

import (
	"testing"

	"pump-launchpad/internal/curve"
	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/engine"
)

func testEngine(t *testing.T, threshold uint64) *engine.Engine {
	t.Helper()
	eng, err := engine.New(domain.CurveParameters{
		CurveType:           domain.CurveLinear,
		InitialPrice:        1000,
		Slope:               10,
		GraduationThreshold: threshold,
		VolatilityDamper:    curve.Precision,
		InitialSupply:       1_000_000_000,
		MaxSupply:           1_000_000_000_000,
	})
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	return eng
}

func TestEvaluateBelowThreshold(t *testing.T) {
	const threshold = 1_000_000_000
	eng := testEngine(t, threshold)

	reserves := domain.ReserveState{
		TokenReserve:      1_000_000_000,
		CirculatingSupply: 1_000_000,
	}
	signal, err := NewMonitor().Evaluate("market1", eng, reserves, threshold)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if signal.Eligible {
		t.Error("early market marked eligible")
	}
	if signal.MarketID != "market1" {
		t.Errorf("MarketID = %q, want market1", signal.MarketID)
	}
	if signal.ProgressScaled == 0 || signal.ProgressScaled >= curve.Precision {
		t.Errorf("ProgressScaled = %d, want inside (0, 1)", signal.ProgressScaled)
	}
	if signal.Capitalization == 0 {
		t.Error("expected a nonzero capitalization")
	}
}

func TestEvaluateAtThreshold(t *testing.T) {
	const threshold = 1_000_000_000
	eng := testEngine(t, threshold)

	reserves := domain.ReserveState{
		TokenReserve:      1_000_000_000,
		CirculatingSupply: 600_000_000_000,
	}
	signal, err := NewMonitor().Evaluate("market1", eng, reserves, threshold)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if !signal.Eligible {
		t.Errorf("capitalization %d past threshold %d not eligible", signal.Capitalization, threshold)
	}
	if signal.ProgressScaled != curve.Precision {
		t.Errorf("ProgressScaled = %d, want clamped to %d", signal.ProgressScaled, curve.Precision)
	}
}

func TestEvaluateZeroThresholdNeverEligible(t *testing.T) {
	eng := testEngine(t, 1_000_000_000)

	reserves := domain.ReserveState{
		TokenReserve:      1_000_000_000,
		CirculatingSupply: 600_000_000_000,
	}
	signal, err := NewMonitor().Evaluate("market1", eng, reserves, 0)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if signal.Eligible {
		t.Error("zero threshold must disable graduation")
	}
}
