package cache

import (
	"context"
	"sync"
	"time"

	"lifepath/internal/category/models"
)

// Memory is an in-process cache for single-instance deployments and tests.
type Memory struct {
	mu        sync.Mutex
	ttl       time.Duration
	grouped   models.GroupedCategories
	expiresAt time.Time
	now       func() time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source, for expiry tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (c *Memory) GetGrouped(_ context.Context) (models.GroupedCategories, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.grouped == nil || c.now().After(c.expiresAt) {
		c.grouped = nil
		return nil, false, nil
	}
	return c.grouped, true, nil
}

func (c *Memory) SetGrouped(_ context.Context, grouped models.GroupedCategories) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.grouped = grouped
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *Memory) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.grouped = nil
	return nil
}
