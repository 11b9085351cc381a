// internal/store/memory.go
package store

import (
	"encoding/json"
	"sync"
)

type memoryEntry struct {
	status Status
	data   []byte
	reason error
}

// MemoryStore is an in-process Store. Values are kept JSON-encoded so Load
// behaves like reading back a file.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) Lookup(key string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].status, nil
}

func (s *MemoryStore) Load(key string, v any) (bool, error) {
	s.mu.Lock()
	e := s.entries[key]
	s.mu.Unlock()

	if e.status != StatusCached {
		return false, nil
	}
	return true, json.Unmarshal(e.data, v)
}

func (s *MemoryStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{status: StatusCached, data: data}
	return nil
}

// MarkFailed records the failure unless the entry is already cached.
func (s *MemoryStore) MarkFailed(key string, reason error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[key].status == StatusCached {
		return nil
	}
	s.entries[key] = memoryEntry{status: StatusFailed, reason: reason}
	return nil
}

// FailureReason returns the error recorded for key, if any.
func (s *MemoryStore) FailureReason(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key].reason
}
