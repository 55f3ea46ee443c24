package memory

import (
	"context"
	"sort"
	"sync"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// MarketStore is an in-memory implementation of storage.MarketStore.
type MarketStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.Market // keyed by market_id
	byMint map[string]string         // mint -> market_id
}

// NewMarketStore creates a new in-memory market store.
func NewMarketStore() *MarketStore {
	return &MarketStore{
		data:   make(map[string]*domain.Market),
		byMint: make(map[string]string),
	}
}

// Insert adds a new market. Returns ErrDuplicateKey if market_id exists.
func (s *MarketStore) Insert(_ context.Context, m *domain.Market) error {
	if m == nil || m.MarketID == "" || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.MarketID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byMint[m.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	marketCopy := *m
	s.data[m.MarketID] = &marketCopy
	s.byMint[m.Mint] = m.MarketID
	return nil
}

// GetByID retrieves a market by its ID. Returns ErrNotFound if not exists.
func (s *MarketStore) GetByID(_ context.Context, marketID string) (*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[marketID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	marketCopy := *m
	return &marketCopy, nil
}

// GetByMint retrieves the market for a mint address. Returns ErrNotFound if not exists.
func (s *MarketStore) GetByMint(_ context.Context, mint string) (*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	marketID, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	marketCopy := *s.data[marketID]
	return &marketCopy, nil
}

// Update overwrites an existing market. Returns ErrNotFound if not exists.
func (s *MarketStore) Update(_ context.Context, m *domain.Market) error {
	if m == nil || m.MarketID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.MarketID]; !exists {
		return storage.ErrNotFound
	}

	marketCopy := *m
	s.data[m.MarketID] = &marketCopy
	return nil
}

// List retrieves all markets, ordered by created_at ASC.
func (s *MarketStore) List(_ context.Context) ([]*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Market, 0, len(s.data))
	for _, m := range s.data {
		marketCopy := *m
		result = append(result, &marketCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt == result[j].CreatedAt {
			return result[i].MarketID < result[j].MarketID
		}
		return result[i].CreatedAt < result[j].CreatedAt
	})

	return result, nil
}
