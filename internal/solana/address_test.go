package solana

import (
	"errors"
	"testing"

	"github.com/mr-tron/base58"
)

func TestDecodeWSOLMint(t *testing.T) {
	decoded, err := Decode(WSOLMint)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 32 {
		t.Errorf("decoded length = %d, want 32", len(decoded))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not-base58-0OIl",
		"abc", // too short
		base58.Encode(make([]byte, 31)),
		base58.Encode(make([]byte, 33)),
	}
	for _, address := range cases {
		if _, err := Decode(address); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("Decode(%q): expected ErrInvalidAddress, got %v", address, err)
		}
	}
}

func TestValidateWallet(t *testing.T) {
	// The ed25519 identity point encoding: 32 bytes with a leading 1.
	identity := make([]byte, 32)
	identity[0] = 1
	if err := ValidateWallet(base58.Encode(identity)); err != nil {
		t.Errorf("identity point rejected: %v", err)
	}

	// All-0xFF encodes y >= p; non-canonical encodings are rejected
	// even when they reduce to a valid point.
	bad := make([]byte, 32)
	for i := range bad {
		bad[i] = 0xFF
	}
	if err := ValidateWallet(base58.Encode(bad)); !errors.Is(err, ErrNotOnCurve) {
		t.Errorf("expected ErrNotOnCurve, got %v", err)
	}

	// p+1 reduces to the identity point but is not its canonical
	// encoding.
	nonCanonical := make([]byte, 32)
	nonCanonical[0] = 0xEE
	for i := 1; i < 31; i++ {
		nonCanonical[i] = 0xFF
	}
	nonCanonical[31] = 0x7F
	if err := ValidateWallet(base58.Encode(nonCanonical)); !errors.Is(err, ErrNotOnCurve) {
		t.Errorf("expected ErrNotOnCurve for a non-canonical encoding, got %v", err)
	}
}

func TestValidateMintAllowsOffCurve(t *testing.T) {
	// Program-derived addresses are valid mints even off the curve.
	bad := make([]byte, 32)
	for i := range bad {
		bad[i] = 0xFF
	}
	if err := ValidateMint(base58.Encode(bad)); err != nil {
		t.Errorf("ValidateMint rejected a well-formed address: %v", err)
	}
}
