package curve

import (
	"errors"
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
)

func TestIsqrt(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{4, 2},
		{9, 3},
		{15, 3},
		{16, 4},
		{255, 15},
		{256, 16},
		{1_000_000, 1000},
		{1_000_001, 1000},
	}

	for _, tc := range cases {
		got := isqrt(sdkmath.NewInt(tc.in))
		if !got.Equal(sdkmath.NewInt(tc.want)) {
			t.Errorf("isqrt(%d) = %s, want %d", tc.in, got, tc.want)
		}
	}
}

func TestIsqrtLarge(t *testing.T) {
	// 10^18 squared, well past uint64.
	base := sdkmath.NewInt(1_000_000_000_000_000_000)
	got := isqrt(base.Mul(base))
	if !got.Equal(base) {
		t.Errorf("isqrt(10^36) = %s, want %s", got, base)
	}
}

func TestExpFixedZero(t *testing.T) {
	got := expFixed(sdkmath.ZeroInt())
	if !got.Equal(precisionInt) {
		t.Errorf("e^0 = %s, want %d", got, Precision)
	}
}

func TestExpFixedOne(t *testing.T) {
	// Four Taylor terms at x=1: 1 + 1 + 1/2 + 1/6 + 1/24 = 2.7083...
	got := expFixed(precisionInt).Int64()
	if got < 2_700_000_000 || got > 2_720_000_000 {
		t.Errorf("e^1 = %d, expected near 2.708e9", got)
	}
}

func TestExpFixedNegative(t *testing.T) {
	got := expFixed(precisionInt.Neg())
	if !got.IsPositive() {
		t.Fatalf("e^-1 = %s, want positive", got)
	}
	if got.GTE(precisionInt) {
		t.Errorf("e^-1 = %s, want below %d", got, Precision)
	}

	// Heavily negative arguments floor at one subunit, never zero.
	deep := expFixed(sdkmath.NewInt(-expArgCap))
	if !deep.IsPositive() {
		t.Errorf("e^-10 = %s, want positive", deep)
	}
}

func TestExpFixedMonotonic(t *testing.T) {
	prev := expFixed(sdkmath.ZeroInt())
	for x := int64(500_000_000); x <= 5_000_000_000; x += 500_000_000 {
		cur := expFixed(sdkmath.NewInt(x))
		if cur.LTE(prev) {
			t.Fatalf("expFixed not increasing at x=%d: %s <= %s", x, cur, prev)
		}
		prev = cur
	}
}

func TestExpFixedClamped(t *testing.T) {
	atCap := expFixed(sdkmath.NewInt(expArgCap))
	beyond := expFixed(sdkmath.NewInt(expArgCap * 3))
	if !atCap.Equal(beyond) {
		t.Errorf("argument clamp broken: e^10 = %s, e^30 = %s", atCap, beyond)
	}
}

func TestLnFixedZero(t *testing.T) {
	got, err := lnFixed(0)
	if err != nil {
		t.Fatalf("lnFixed(0) failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("ln(1) = %s, want 0", got)
	}
}

func TestLnFixedPowersOfTwo(t *testing.T) {
	// ln(2^k) = k*ln2 for arguments reduced exactly.
	got, err := lnFixed(2*Precision - 1)
	if err != nil {
		t.Fatalf("lnFixed failed: %v", err)
	}
	diff := got.Sub(sdkmath.NewInt(ln2Scaled)).Abs().Int64()
	if diff > 10_000_000 { // within 0.01
		t.Errorf("ln(2) = %s, want near %d", got, ln2Scaled)
	}

	got, err = lnFixed(4*Precision - 1)
	if err != nil {
		t.Fatalf("lnFixed failed: %v", err)
	}
	diff = got.Sub(sdkmath.NewInt(2 * ln2Scaled)).Abs().Int64()
	if diff > 20_000_000 {
		t.Errorf("ln(4) = %s, want near %d", got, 2*ln2Scaled)
	}
}

func TestLnFixedMonotonic(t *testing.T) {
	var prev sdkmath.Int
	for i, x := range []uint64{Precision, 10 * Precision, 100 * Precision, 1000 * Precision} {
		cur, err := lnFixed(x)
		if err != nil {
			t.Fatalf("lnFixed(%d) failed: %v", x, err)
		}
		if i > 0 && cur.LTE(prev) {
			t.Fatalf("lnFixed not increasing at %d: %s <= %s", x, cur, prev)
		}
		prev = cur
	}
}

func TestLnFixedMaxArgument(t *testing.T) {
	if _, err := lnFixed(^uint64(0)); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("expected ErrMathOverflow at the argument ceiling, got %v", err)
	}
}

func TestPriceImpactBps(t *testing.T) {
	cases := []struct {
		oldPrice uint64
		newPrice uint64
		want     uint64
	}{
		{1000, 1100, 1000}, // +10%
		{1000, 950, 500},   // -5%
		{1000, 1000, 0},
		{1000, 3000, 10_000}, // capped
		{0, 500, 10_000},     // zero base is full impact
		{1, 2, 10_000},
	}

	for _, tc := range cases {
		got := priceImpactBps(tc.oldPrice, tc.newPrice)
		if got != tc.want {
			t.Errorf("priceImpactBps(%d, %d) = %d, want %d", tc.oldPrice, tc.newPrice, got, tc.want)
		}
	}
}

func TestCheckedMulOverflow(t *testing.T) {
	huge := sdkmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 200))
	if _, err := checkedMul(huge, huge); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("expected ErrMathOverflow, got %v", err)
	}

	got, err := checkedMul(sdkmath.NewInt(1_000_000), sdkmath.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("small product failed: %v", err)
	}
	if !got.Equal(sdkmath.NewInt(1_000_000_000_000)) {
		t.Errorf("checkedMul = %s, want 10^12", got)
	}
}

func TestCheckedQuoZero(t *testing.T) {
	if _, err := checkedQuo(oneInt, zeroInt); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestToU64Bounds(t *testing.T) {
	if _, err := toU64(oneInt.Neg()); !errors.Is(err, ErrMathUnderflow) {
		t.Errorf("expected ErrMathUnderflow, got %v", err)
	}
	if _, err := toU64(sdkmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 70))); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("expected ErrMathOverflow, got %v", err)
	}
}

func TestClampPrice(t *testing.T) {
	if got := clampPrice(5, 10, 100); got != 10 {
		t.Errorf("floor clamp = %d, want 10", got)
	}
	if got := clampPrice(500, 10, 100); got != 100 {
		t.Errorf("ceiling clamp = %d, want 100", got)
	}
	if got := clampPrice(500, 10, 0); got != 500 {
		t.Errorf("zero max should be unbounded, got %d", got)
	}
}
