package memory

import (
	"context"
	"sync"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// TraderProfileStore is an in-memory implementation of storage.TraderProfileStore.
type TraderProfileStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TraderProfile // keyed by trader address
}

// NewTraderProfileStore creates a new in-memory trader profile store.
func NewTraderProfileStore() *TraderProfileStore {
	return &TraderProfileStore{
		data: make(map[string]*domain.TraderProfile),
	}
}

// Upsert inserts the profile or overwrites the existing one.
func (s *TraderProfileStore) Upsert(_ context.Context, p *domain.TraderProfile) error {
	if p == nil || p.Trader == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profileCopy := *p
	s.data[p.Trader] = &profileCopy
	return nil
}

// GetByAddress retrieves a profile. Returns ErrNotFound if not exists.
func (s *TraderProfileStore) GetByAddress(_ context.Context, trader string) (*domain.TraderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[trader]
	if !exists {
		return nil, storage.ErrNotFound
	}

	profileCopy := *p
	return &profileCopy, nil
}
