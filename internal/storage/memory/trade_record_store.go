package memory

import (
	"context"
	"sort"
	"sync"

	"pump-launchpad/internal/domain"
	"pump-launchpad/internal/storage"
)

// TradeRecordStore is an in-memory implementation of storage.TradeRecordStore.
type TradeRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewTradeRecordStore creates a new in-memory trade record store.
func NewTradeRecordStore() *TradeRecordStore {
	return &TradeRecordStore{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" || t.MarketID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *t
	s.data[t.TradeID] = &recordCopy
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(_ context.Context, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *t
	return &recordCopy, nil
}

// GetByMarketID retrieves all trades for a market, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByMarketID(_ context.Context, marketID string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.MarketID == marketID {
			recordCopy := *t
			result = append(result, &recordCopy)
		}
	}

	sortTradesByTime(result)
	return result, nil
}

// GetByTrader retrieves all trades by a trader, ordered by timestamp ASC.
func (s *TradeRecordStore) GetByTrader(_ context.Context, trader string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if t.Trader == trader {
			recordCopy := *t
			result = append(result, &recordCopy)
		}
	}

	sortTradesByTime(result)
	return result, nil
}

func sortTradesByTime(trades []*domain.TradeRecord) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Timestamp == trades[j].Timestamp {
			return trades[i].TradeID < trades[j].TradeID
		}
		return trades[i].Timestamp < trades[j].Timestamp
	})
}
