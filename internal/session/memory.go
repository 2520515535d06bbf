package session

import (
	"context"
	"sync"
	"time"
)

// NewMemoryStore returns a Store that holds session records in process
// memory: sessions won't survive a restart, but it needs no data directory
func NewMemoryStore() Store {
	return &memoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func (s *memoryStore) Create(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.now().After(record.ExpiresAt) {
		s.mu.Lock()
		delete(s.records, id)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return &record, nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

var _ Store = (*memoryStore)(nil)
