package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory cache
const DefaultMaxEntries = 1000

type memoryEntry struct {
	value    []byte
	cachedAt time.Time
}

// Memory is an in-process cache with a fixed TTL
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemory creates an in-memory cache. Entries older than ttl are misses.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a fresh entry
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || m.now().Sub(e.cachedAt) >= m.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores an entry, evicting expired entries when the cache is full
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked(now)
	}
	m.entries[key] = memoryEntry{value: value, cachedAt: now}
	return nil
}

// evictLocked drops expired entries, or the oldest one when none expired
func (m *Memory) evictLocked(now time.Time) {
	var oldestKey string
	var oldest time.Time
	removed := 0

	for k, e := range m.entries {
		if now.Sub(e.cachedAt) >= m.ttl {
			delete(m.entries, k)
			removed++
			continue
		}
		if oldestKey == "" || e.cachedAt.Before(oldest) {
			oldestKey, oldest = k, e.cachedAt
		}
	}
	if removed == 0 && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

// Len reports the number of stored entries, including expired ones
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
