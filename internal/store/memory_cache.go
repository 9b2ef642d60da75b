package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/link"
)

type cacheEntry struct {
	url       string
	expiresAt time.Time // zero means no expiry
}

// MemoryCache is an in-memory implementation of link.Cache for tests and
// local development. Entries honor their TTL on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[link.Code]cacheEntry
}

// NewMemoryCache creates a new in-memory resolution cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[link.Code]cacheEntry)}
}

func (m *MemoryCache) Get(_ context.Context, key link.Code) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", link.ErrNotFound
	}

	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(time.Now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()

		return "", link.ErrNotFound
	}

	return entry.url, nil
}

func (m *MemoryCache) Set(_ context.Context, key link.Code, url string, ttl time.Duration) error {
	entry := cacheEntry{url: url}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key link.Code) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

// Len reports the number of live entries, for tests.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Compile-time check.
var _ link.Cache = (*MemoryCache)(nil)
