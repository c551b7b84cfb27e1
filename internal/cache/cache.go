package cache

import (
	"context"
	"sync"
)

// UsernameCache remembers display names by user id so each account's profile
// page is fetched at most once per process.
type UsernameCache struct {
	mu    sync.RWMutex
	names map[int]string
}

// NewUsernameCache creates an empty UsernameCache.
func NewUsernameCache() *UsernameCache {
	return &UsernameCache{
		names: make(map[int]string),
	}
}

// Get retrieves a cached name.
func (c *UsernameCache) Get(userID int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[userID]
	return name, ok
}

// Set stores a name.
func (c *UsernameCache) Set(userID int, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[userID] = name
}

// Reset clears the cache.
func (c *UsernameCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = make(map[int]string)
}

// Len returns the number of cached names.
func (c *UsernameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// Lookup returns the cached name for userID, calling fetch on a miss. Failed
// fetches are not cached.
func (c *UsernameCache) Lookup(ctx context.Context, userID int, fetch func(context.Context, int) (string, error)) (string, error) {
	if name, ok := c.Get(userID); ok {
		return name, nil
	}

	name, err := fetch(ctx, userID)
	if err != nil {
		return "", err
	}

	c.Set(userID, name)
	return name, nil
}
