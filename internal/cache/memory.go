package cache

import (
	"context"
	"sync"
	"time"

	"github.com/blumlaut/fxfurtrack/internal/preview"
)

type memoryEntry struct {
	value     preview.Result
	expiresAt time.Time
}

// Memory is an in-process preview.Cache for local development and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory constructs an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for key if present and unexpired.
func (c *Memory) Get(_ context.Context, key string) (preview.Result, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return preview.Result{}, false, nil
	}
	return entry.value, true, nil
}

// Set stores a result under key with the given TTL.
func (c *Memory) Set(_ context.Context, key string, value preview.Result, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
