package store

import (
	"context"
	"sync"

	"github.com/conr2d/restaking/pkg/core"
)

// MemStore is an in-memory AccountStore for standalone mode and tests.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[core.Pubkey]Entry
}

func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[core.Pubkey]Entry)}
}

func (s *MemStore) Get(_ context.Context, key core.Pubkey) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.accounts[key]
	if !ok {
		return nil, nil
	}
	// Copy so callers can mutate freely.
	data := make([]byte, len(entry.Data))
	copy(data, entry.Data)
	return &Entry{Key: entry.Key, Owner: entry.Owner, Data: data}, nil
}

func (s *MemStore) PutBatch(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		data := make([]byte, len(entry.Data))
		copy(data, entry.Data)
		s.accounts[entry.Key] = Entry{Key: entry.Key, Owner: entry.Owner, Data: data}
	}
	return nil
}

// Len returns the number of stored accounts.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
