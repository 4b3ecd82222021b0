// Package store persists computed metric records and fronts them with
// a time-bounded cache. Backends are injectable: in-memory for tests,
// a JSON file directory for local runs, Postgres for shared state.
package store

import (
	"context"
	"sync"

	"capital_metrics/pkg/models"
)

// Store persists one record per ticker. Load returns (nil, nil) on a
// miss; staleness is the cache's concern, not the store's.
type Store interface {
	Load(ctx context.Context, ticker string) (*models.Record, error)
	Save(ctx context.Context, rec *models.Record) error
}

// MemoryStore is a map-backed Store for tests and single-process use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.Record)}
}

// Load returns the stored record for the ticker, or nil on a miss.
func (s *MemoryStore) Load(_ context.Context, ticker string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[tickerKey(ticker)]
	if !ok {
		return nil, nil
	}
	return rec, nil
}

// Save stores the record keyed by ticker, replacing any prior entry.
func (s *MemoryStore) Save(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[tickerKey(rec.Ticker)] = rec
	return nil
}
