package cache

import (
	"context"
	"sync"
)

// ResolutionCache maps a provider-scoped track id to the last direct
// audio URL resolved for it. Entries are overwritten on re-resolution,
// never expired; Delete exists so the streaming path can evict an entry
// whose URL stopped working. Implementations must be safe for use by
// concurrent stream requests; last writer wins.
type ResolutionCache interface {
	Get(ctx context.Context, id string) (string, bool)
	Put(ctx context.Context, id, url string)
	Delete(ctx context.Context, id string)
}

// memoryCache is the default process-lifetime implementation.
type memoryCache struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewMemoryCache returns an empty in-memory resolution cache.
func NewMemoryCache() ResolutionCache {
	return &memoryCache{urls: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.urls[id]
	return url, ok
}

func (c *memoryCache) Put(_ context.Context, id, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.urls[id] = url
}

func (c *memoryCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.urls, id)
}
