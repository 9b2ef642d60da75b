package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/serroba/shortlink/internal/auth"
)

// MemoryUsers is an in-memory implementation of auth.Repository for tests.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*auth.User
}

// NewMemoryUsers creates a new in-memory user repository.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[uuid.UUID]*auth.User)}
}

func (m *MemoryUsers) CreateUser(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return auth.ErrEmailTaken
		}
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	c := *u
	m.users[u.ID] = &c

	return nil
}

func (m *MemoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			c := *u

			return &c, nil
		}
	}

	return nil, auth.ErrUserNotFound
}

func (m *MemoryUsers) FindByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	c := *u

	return &c, nil
}

// Compile-time check.
var _ auth.Repository = (*MemoryUsers)(nil)
