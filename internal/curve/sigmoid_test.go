package curve

import (
	"errors"
	"testing"
)

// Steep shape used across the sigmoid tests: floor 1000, ceiling 10^6,
// inflection at half the supply.
func testSigmoid(t *testing.T) *Sigmoid {
	t.Helper()
	model, err := NewSigmoid(1000, 1_000_000, 20_000_000_000_000, 500_000, 1_000_000)
	if err != nil {
		t.Fatalf("NewSigmoid failed: %v", err)
	}
	return model
}

func TestNewSigmoidInvalidParams(t *testing.T) {
	cases := []struct {
		name      string
		minPrice  uint64
		maxPrice  uint64
		steepness uint64
		midpoint  uint64
		maxSupply uint64
	}{
		{"zero floor", 0, 1_000_000, Precision, 500, 1000},
		{"ceiling below floor", 1000, 999, Precision, 500, 1000},
		{"zero steepness", 1000, 1_000_000, 0, 500, 1000},
		{"midpoint beyond supply", 1000, 1_000_000, Precision, 2000, 1000},
		{"zero max supply", 1000, 1_000_000, Precision, 0, 0},
	}

	for _, tc := range cases {
		if _, err := NewSigmoid(tc.minPrice, tc.maxPrice, tc.steepness, tc.midpoint, tc.maxSupply); !errors.Is(err, ErrInvalidCurveParams) {
			t.Errorf("%s: expected ErrInvalidCurveParams, got %v", tc.name, err)
		}
	}
}

func TestSigmoidPriceEndpoints(t *testing.T) {
	model := testSigmoid(t)

	low, err := model.CurrentPrice(testReserves(0, 1_000_000, 0))
	if err != nil {
		t.Fatalf("CurrentPrice(0) failed: %v", err)
	}
	// Near the floor: within ~1% of the price range above it.
	if low < 1000 || low > 12_000 {
		t.Errorf("price at zero supply = %d, want near the floor 1000", low)
	}

	mid, err := model.CurrentPrice(testReserves(0, 1_000_000, 500_000))
	if err != nil {
		t.Fatalf("CurrentPrice(midpoint) failed: %v", err)
	}
	// Exactly the inflection: floor + half the range.
	if mid < 490_000 || mid > 510_000 {
		t.Errorf("price at midpoint = %d, want near 500500", mid)
	}

	high, err := model.CurrentPrice(testReserves(0, 1_000_000, 1_000_000))
	if err != nil {
		t.Fatalf("CurrentPrice(max) failed: %v", err)
	}
	if high < 990_000 || high > 1_000_000 {
		t.Errorf("price at max supply = %d, want near the ceiling 1000000", high)
	}
}

func TestSigmoidPriceMonotonic(t *testing.T) {
	model := testSigmoid(t)

	var prev uint64
	for _, supply := range []uint64{0, 250_000, 500_000, 750_000, 1_000_000} {
		price, err := model.CurrentPrice(testReserves(0, 1_000_000, supply))
		if err != nil {
			t.Fatalf("CurrentPrice(%d) failed: %v", supply, err)
		}
		if supply > 0 && price <= prev {
			t.Fatalf("price not increasing at supply %d: %d <= %d", supply, price, prev)
		}
		prev = price
	}
}

func TestSigmoidBuy(t *testing.T) {
	model := testSigmoid(t)

	reserves := testReserves(0, 1_000_000, 0)
	calc, err := model.QuoteBuy(reserves, 1000)
	if err != nil {
		t.Fatalf("QuoteBuy failed: %v", err)
	}

	if calc.TokenAmount == 0 {
		t.Fatal("buy returned zero tokens")
	}
	if calc.NewSupply > 1_000_000 {
		t.Errorf("NewSupply = %d, exceeds the supply cap", calc.NewSupply)
	}
	if calc.PricePerToken < 1000 || calc.PricePerToken > 1_000_000 {
		t.Errorf("post-trade price = %d, outside [1000, 1000000]", calc.PricePerToken)
	}
}

func TestSigmoidSell(t *testing.T) {
	model := testSigmoid(t)

	reserves := testReserves(1_000_000, 500_000, 500_000)
	calc, err := model.QuoteSell(reserves, 100_000)
	if err != nil {
		t.Fatalf("QuoteSell failed: %v", err)
	}

	if calc.BaseAmount == 0 {
		t.Fatal("sell returned zero lamports")
	}
	if calc.NewSupply != 400_000 {
		t.Errorf("NewSupply = %d, want 400000", calc.NewSupply)
	}
	if calc.PriceImpactBps == 0 {
		t.Error("expected a nonzero impact selling through the steep region")
	}
}

func TestSigmoidBuyRejections(t *testing.T) {
	model := testSigmoid(t)

	if _, err := model.QuoteBuy(testReserves(0, 1_000_000, 0), 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := model.QuoteBuy(testReserves(0, 1_000_000, 1_000_000), 1000); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Errorf("at max supply: expected ErrInsufficientLiquidity, got %v", err)
	}
}
