package metrics

import (
	"math"
	"testing"
)

func TestMedianOf(t *testing.T) {
	tests := []struct {
		name   string
		values []uint64
		want   uint64
	}{
		{"empty", nil, 0},
		{"single", []uint64{42}, 42},
		{"odd", []uint64{30, 10, 20}, 20},
		{"even lower median", []uint64{40, 10, 30, 20}, 20},
		{"duplicates", []uint64{5, 5, 5, 9}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := medianOf(tc.values); got != tc.want {
				t.Errorf("medianOf = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSignedChangeBps(t *testing.T) {
	tests := []struct {
		name        string
		first, last uint64
		want        int64
	}{
		{"flat", 1_000, 1_000, 0},
		{"up ten percent", 1_000, 1_100, 1_000},
		{"down quarter", 2_000, 1_500, -2_500},
		{"double", 500, 1_000, 10_000},
		{"zero first", 0, 1_000, 0},
		{"fractional", 3, 4, 3_333},
		{"saturates up", 1, math.MaxUint64, 10_000_000},
		{"full decline", math.MaxUint64, 0, -10_000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := signedChangeBps(tc.first, tc.last); got != tc.want {
				t.Errorf("signedChangeBps(%d, %d) = %d, want %d", tc.first, tc.last, got, tc.want)
			}
		})
	}
}

func TestSaturatingAdd(t *testing.T) {
	if got := saturatingAdd(1, 2); got != 3 {
		t.Errorf("saturatingAdd(1, 2) = %d", got)
	}
	if got := saturatingAdd(math.MaxUint64, 1); got != math.MaxUint64 {
		t.Errorf("saturatingAdd overflow = %d, want MaxUint64", got)
	}
}
