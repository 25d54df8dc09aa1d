package cache

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryStore is the in-process Store implementation. Expired entries are
// dropped lazily on read and swept by a janitor goroutine.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string]memoryEntry
	now     func() time.Time
	stopJan chan struct{}
	janDone chan struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

// WithClock substitutes the time source. Tests use it to control expiry.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.items, key)
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = s.newEntry(value, ttl)
	return nil
}

func (s *MemoryStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[key]; ok && !s.now().After(entry.expiresAt) {
		return false, nil
	}
	s.items[key] = s.newEntry(value, ttl)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string, expect []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expect != nil {
		if entry, ok := s.items[key]; !ok || !bytes.Equal(entry.value, expect) {
			return nil
		}
	}
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for key, entry := range s.items {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		delete(s.items, key)
		if !s.now().After(entry.expiresAt) {
			cleared++
		}
	}
	return cleared, nil
}

func (s *MemoryStore) StatsByPrefix(_ context.Context, prefix string) (PrefixStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := PrefixStats{}
	for key, entry := range s.items {
		if !strings.HasPrefix(key, prefix) || s.now().After(entry.expiresAt) {
			continue
		}
		stats.Entries++
		if stats.LastStoredAt == nil || entry.storedAt.After(*stats.LastStoredAt) {
			storedAt := entry.storedAt
			stats.LastStoredAt = &storedAt
		}
	}
	return stats, nil
}

func (s *MemoryStore) newEntry(value []byte, ttl time.Duration) memoryEntry {
	stored := make([]byte, len(value))
	copy(stored, value)
	now := s.now()
	return memoryEntry{
		value:     stored,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
}

// StartJanitor sweeps expired entries every interval until Stop is called.
func (s *MemoryStore) StartJanitor(interval time.Duration) {
	s.stopJan = make(chan struct{})
	s.janDone = make(chan struct{})

	go func() {
		defer close(s.janDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopJan:
				return
			}
		}
	}()
}

// Stop terminates the janitor goroutine.
func (s *MemoryStore) Stop() {
	if s.stopJan != nil {
		close(s.stopJan)
		<-s.janDone
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, key)
		}
	}
}
