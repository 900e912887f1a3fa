package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok := c.Get(ctx, "dQw4w9WgXcQ")
	assert.False(t, ok, "empty cache should miss")

	c.Put(ctx, "dQw4w9WgXcQ", "https://cdn.example.com/audio/1")
	url, ok := c.Get(ctx, "dQw4w9WgXcQ")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/audio/1", url)

	// Re-resolution overwrites, it does not accumulate.
	c.Put(ctx, "dQw4w9WgXcQ", "https://cdn.example.com/audio/2")
	url, ok = c.Get(ctx, "dQw4w9WgXcQ")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/audio/2", url)

	c.Delete(ctx, "dQw4w9WgXcQ")
	_, ok = c.Get(ctx, "dQw4w9WgXcQ")
	assert.False(t, ok, "deleted entry should miss")
}

func TestMemoryCache_DeleteUnknownIsNoop(t *testing.T) {
	c := NewMemoryCache()
	c.Delete(context.Background(), "missing")
}

// Simultaneous stream requests for the same track hit the cache
// concurrently; last writer wins and the map must not corrupt.
func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.Put(ctx, "shared", fmt.Sprintf("https://cdn.example.com/%d", i))
		}(i)
		go func() {
			defer wg.Done()
			c.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	url, ok := c.Get(ctx, "shared")
	require.True(t, ok)
	assert.Contains(t, url, "https://cdn.example.com/")
}
