package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeMarketID computes a deterministic market_id using SHA256.
// Formula: SHA256(mint|creator|created_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeMarketID(mint, creator string, createdAtMs int64) string {
	data := fmt.Sprintf("%s|%s|%d", mint, creator, createdAtMs)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
