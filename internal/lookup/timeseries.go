// Package lookup resolves price observations against a market's
// recorded history.
package lookup

import (
	"errors"

	"pump-launchpad/internal/domain"
)

// ErrNoPriceData is returned when a market has no recorded price points.
var ErrNoPriceData = errors.New("no price data available")

// PointAt returns the price point at or before the target timestamp.
// Points must be sorted by timestamp ascending, the order the history
// stores return them in. If every point is after the target, the first
// available point is returned.
func PointAt(target int64, points []*domain.PricePoint) (*domain.PricePoint, error) {
	if len(points) == 0 {
		return nil, ErrNoPriceData
	}

	for i := len(points) - 1; i >= 0; i-- {
		if points[i].TimestampMs <= target {
			return points[i], nil
		}
	}

	return points[0], nil
}

// Latest returns the most recent price point.
func Latest(points []*domain.PricePoint) (*domain.PricePoint, error) {
	if len(points) == 0 {
		return nil, ErrNoPriceData
	}
	return points[len(points)-1], nil
}
