package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"pump-launchpad/internal/domain"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(market_id|trader|direction|trade_seq)
// trade_seq is the market's trade count at settlement, so retries of the
// same settlement produce the same ID while successive trades differ.
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(marketID, trader string, direction domain.TradeDirection, tradeSeq uint64) string {
	data := fmt.Sprintf("%s|%s|%s|%d", marketID, trader, string(direction), tradeSeq)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
