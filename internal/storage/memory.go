package storage

import (
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Contents are lost on exit.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	quota   int64
}

// NewMemoryStore returns an empty store. A quota <= 0 disables the size check.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry), quota: quota}
}

func (s *MemoryStore) Get(key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Put(key, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var used int64
	for k, e := range s.entries {
		if k != key {
			used += int64(len(e.Value))
		}
	}
	if exceedsQuota(s.quota, used, value) {
		return 0, ErrQuotaExceeded
	}
	e := s.entries[key]
	e.Key = key
	e.Value = value
	e.Revision++
	e.UpdatedAt = time.Now()
	s.entries[key] = e
	return e.Revision, nil
}

func (s *MemoryStore) Revision(key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].Revision, nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
