package trading

import (
	"pump-launchpad/internal/domain"
)

// bpsOf computes amount*bps/10000 exactly without overflow:
// amount = q*10000 + r, so the product splits into q*bps + r*bps/10000.
func bpsOf(amount, bps uint64) uint64 {
	q, r := amount/10_000, amount%10_000
	return q*bps + r*bps/10_000
}

// ComputeCharges returns the platform fee and whale tax for a trade's
// base-asset amount. A trader is a whale when the single trade reaches
// the threshold or their lifetime volume already has.
func ComputeCharges(policy domain.FeePolicy, baseAmount, traderVolume uint64) (fee, tax uint64) {
	fee = bpsOf(baseAmount, policy.FeeRateBps)

	if policy.WhaleThreshold > 0 && (baseAmount >= policy.WhaleThreshold || traderVolume >= policy.WhaleThreshold) {
		tax = bpsOf(baseAmount, policy.WhaleTaxBps)
	}
	return fee, tax
}
