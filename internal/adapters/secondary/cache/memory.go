package cache

import (
	"context"
	"sync"
)

// MemoryUnreadCounter backs the unread badge when REDIS_ADDR is empty.
type MemoryUnreadCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryUnreadCounter() *MemoryUnreadCounter {
	return &MemoryUnreadCounter{counts: make(map[string]int64)}
}

func (c *MemoryUnreadCounter) Increment(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID]++
	return nil
}

func (c *MemoryUnreadCounter) Reset(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, userID)
	return nil
}

func (c *MemoryUnreadCounter) Get(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[userID], nil
}
