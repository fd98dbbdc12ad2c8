package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a process-local Store for development and tests. Records
// are copied in and out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(s.expires[id]) {
		delete(s.records, id)
		delete(s.expires, id)
		return nil, ErrNotFound
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	if !s.now().Before(rec.ExpiresAt) {
		return fmt.Errorf("session already expired")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = data
	s.expires[rec.ID] = rec.ExpiresAt
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	delete(s.expires, id)
	return nil
}

// Len reports the number of stored records, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
