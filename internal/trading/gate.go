package trading

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SecurityGate decides whether a trade may proceed. Implementations
// record the attempt as part of the check so that allow/deny decisions
// and bookkeeping stay atomic. The executor treats the gate as opaque:
// any non-nil error rejects the trade.
type SecurityGate interface {
	CheckAndRecord(ctx context.Context, trader, marketID string, now time.Time) error
}

// AllowAll is the gate used when no security collaborator is configured.
type AllowAll struct{}

func (AllowAll) CheckAndRecord(context.Context, string, string, time.Time) error {
	return nil
}

// RateLimitGate enforces a per-trader cooldown between trades plus a
// sliding one-minute trade cap.
type RateLimitGate struct {
	cooldown     time.Duration
	maxPerMinute int

	mu      sync.Mutex
	history map[string][]time.Time // per trader, ascending
}

// NewRateLimitGate builds a gate with the given cooldown and per-minute
// cap. A zero cooldown or non-positive cap disables that check.
func NewRateLimitGate(cooldown time.Duration, maxPerMinute int) *RateLimitGate {
	return &RateLimitGate{
		cooldown:     cooldown,
		maxPerMinute: maxPerMinute,
		history:      make(map[string][]time.Time),
	}
}

func (g *RateLimitGate) CheckAndRecord(_ context.Context, trader, _ string, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	recent := g.history[trader]

	// Drop entries older than the sliding window.
	cutoff := now.Add(-time.Minute)
	for len(recent) > 0 && recent[0].Before(cutoff) {
		recent = recent[1:]
	}

	if g.maxPerMinute > 0 && len(recent) >= g.maxPerMinute {
		g.history[trader] = recent
		return fmt.Errorf("%w: %d trades in the last minute", ErrTradeDenied, len(recent))
	}
	if g.cooldown > 0 && len(recent) > 0 {
		if wait := g.cooldown - now.Sub(recent[len(recent)-1]); wait > 0 {
			g.history[trader] = recent
			return fmt.Errorf("%w: cooldown active for another %s", ErrTradeDenied, wait)
		}
	}

	g.history[trader] = append(recent, now)
	return nil
}
