// Package solana validates the base58 account addresses markets and
// trades carry.
package solana

import (
	"bytes"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// WSOLMint is the wrapped-SOL mint, the base asset of every market.
const WSOLMint = "So11111111111111111111111111111111111111112"

var (
	// ErrInvalidAddress is returned for anything that does not decode
	// to a 32-byte base58 value.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNotOnCurve is returned for wallet addresses whose bytes are
	// not a valid ed25519 point. Program-derived addresses fail this
	// check on purpose: traders and creators are wallets.
	ErrNotOnCurve = errors.New("address not on the ed25519 curve")
)

// Decode parses a base58 address into its 32 raw bytes.
func Decode(address string) ([]byte, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidAddress, address, len(decoded))
	}
	return decoded, nil
}

// ValidateMint checks that a mint address is well-formed. Mints may be
// program-derived, so only the shape is checked.
func ValidateMint(address string) error {
	_, err := Decode(address)
	return err
}

// ValidateWallet checks that a trader or creator address is well-formed
// and lies on the ed25519 curve.
func ValidateWallet(address string) error {
	decoded, err := Decode(address)
	if err != nil {
		return err
	}
	if !isOnCurve(decoded) {
		return fmt.Errorf("%w: %q", ErrNotOnCurve, address)
	}
	return nil
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	p, err := new(edwards25519.Point).SetBytes(point)
	if err != nil {
		return false
	}
	// SetBytes tolerates non-canonical field encodings (y >= p); a
	// valid address must round-trip to the same bytes.
	return bytes.Equal(p.Bytes(), point)
}
