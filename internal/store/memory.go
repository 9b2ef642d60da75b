package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shortlink/internal/link"
)

// MemoryLinks is an in-memory implementation of link.Repository for tests
// and local development. It enforces the same single key namespace as the
// Postgres schema.
type MemoryLinks struct {
	mu    sync.RWMutex
	links map[uuid.UUID]*link.Link
}

// NewMemoryLinks creates a new in-memory link repository.
func NewMemoryLinks() *MemoryLinks {
	return &MemoryLinks{links: make(map[uuid.UUID]*link.Link)}
}

func (m *MemoryLinks) FindByKey(_ context.Context, key link.Code) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if l := m.findByKeyLocked(key); l != nil {
		return copyLink(l), nil
	}

	return nil, link.ErrNotFound
}

func (m *MemoryLinks) Insert(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range l.Keys() {
		if m.findByKeyLocked(key) != nil {
			return link.ErrDuplicateKey
		}
	}

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	m.links[l.ID] = copyLink(l)

	return nil
}

func (m *MemoryLinks) Update(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[l.ID]; !ok {
		return link.ErrNotFound
	}

	m.links[l.ID] = copyLink(l)

	return nil
}

func (m *MemoryLinks) Delete(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[l.ID]; !ok {
		return link.ErrNotFound
	}

	delete(m.links, l.ID)

	return nil
}

func (m *MemoryLinks) FindByOriginalURL(_ context.Context, originalURL string) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*link.Link

	for _, l := range m.links {
		if l.OriginalURL == originalURL {
			out = append(out, copyLink(l))
		}
	}

	return out, nil
}

func (m *MemoryLinks) FindExpired(_ context.Context, now time.Time) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*link.Link

	for _, l := range m.links {
		if l.ExpiresAt != nil && l.ExpiresAt.Before(now) {
			out = append(out, copyLink(l))
		}
	}

	return out, nil
}

func (m *MemoryLinks) FindByOwner(_ context.Context, owner uuid.UUID) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*link.Link

	for _, l := range m.links {
		if l.OwnerID != nil && *l.OwnerID == owner {
			out = append(out, copyLink(l))
		}
	}

	return out, nil
}

func (m *MemoryLinks) findByKeyLocked(key link.Code) *link.Link {
	for _, l := range m.links {
		if l.ShortCode == string(key) {
			return l
		}

		if l.CustomAlias != nil && *l.CustomAlias == string(key) {
			return l
		}
	}

	return nil
}

func copyLink(l *link.Link) *link.Link {
	c := *l

	return &c
}

// Compile-time check.
var _ link.Repository = (*MemoryLinks)(nil)
