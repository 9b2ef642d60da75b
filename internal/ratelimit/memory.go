package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window limiter for tests and single-instance
// deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

// NewMemoryLimiter creates a new in-memory limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*window)}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, cfg Config) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		m.windows[key] = &window{count: 1, resetAt: now.Add(cfg.Window)}

		return true, nil
	}

	w.count++

	return w.count <= cfg.Max, nil
}

// Compile-time check.
var _ Limiter = (*MemoryLimiter)(nil)
