package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps blobs in process memory. A positive quota caps the total
// number of stored bytes, which lets tests exercise a full device store.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

// NewMemoryStoreWithQuota returns a store that rejects writes once the total
// size of all values would exceed quota bytes.
func NewMemoryStoreWithQuota(quota int) *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}, quota: quota}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		used := len(value)
		for k, v := range s.data {
			if k != key {
				used += len(v)
			}
		}
		if used > s.quota {
			return ErrQuotaExceeded
		}
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
