package memory

import (
	"context"
	"sort"
	"sync"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

type pricePointKey struct {
	marketID    string
	timestampMs int64
}

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[pricePointKey]*domain.PricePoint
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[pricePointKey]*domain.PricePoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (market_id, timestamp_ms).
func (s *PriceHistoryStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching the map.
	seen := make(map[pricePointKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.MarketID == "" {
			return storage.ErrInvalidInput
		}
		key := pricePointKey{p.MarketID, p.TimestampMs}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, dup := seen[key]; dup {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[pricePointKey{p.MarketID, p.TimestampMs}] = &pointCopy
	}
	return nil
}

// GetByMarketID retrieves all points for a market, ordered by timestamp ASC.
func (s *PriceHistoryStore) GetByMarketID(_ context.Context, marketID string) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for key, p := range s.data {
		if key.marketID == marketID {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortPointsByTime(result)
	return result, nil
}

// GetByTimeRange retrieves points for a market within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(_ context.Context, marketID string, start, end int64) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for key, p := range s.data {
		if key.marketID == marketID && key.timestampMs >= start && key.timestampMs <= end {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortPointsByTime(result)
	return result, nil
}

func sortPointsByTime(points []*domain.PricePoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].TimestampMs < points[j].TimestampMs
	})
}
