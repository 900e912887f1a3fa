// Package search fans a query out to the configured providers and merges
// their results.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GajjarKashyap/Audio/core/provider"
	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
)

// ErrEmptyQuery is the only failure Search itself produces; provider
// failures degrade to zero results.
var ErrEmptyQuery = errors.New("search query must not be empty")

// Aggregator queries every enabled provider concurrently and
// concatenates the results in provider order: all of the first
// provider's hits, then all of the second's, with no interleaving or
// re-ranking. The provider set can be swapped at runtime by the config
// watcher.
type Aggregator struct {
	mu        sync.RWMutex
	providers []provider.Provider
}

// NewAggregator creates an aggregator over the given providers.
func NewAggregator(providers ...provider.Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

// SetProviders replaces the provider set for subsequent searches.
// In-flight searches keep the set they started with.
func (a *Aggregator) SetProviders(providers []provider.Provider) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.providers = providers
}

// Providers returns a snapshot of the current provider set.
func (a *Aggregator) Providers() []provider.Provider {
	a.mu.RLock()
	defer a.mu.RUnlock()
	snapshot := make([]provider.Provider, len(a.providers))
	copy(snapshot, a.providers)
	return snapshot
}

// Search runs the fan-out. All providers are awaited before returning;
// a provider error is logged and contributes an empty slice.
func (a *Aggregator) Search(ctx context.Context, query string) ([]model.Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	providers := a.Providers()

	// One result slot per provider keeps the output grouped in provider
	// order no matter which goroutine finishes first.
	buckets := make([][]model.Track, len(providers))

	start := time.Now()
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			tracks, err := p.Search(ctx, query, 0)
			if err != nil {
				logger.Warn("provider search failed",
					logger.String("provider", p.Name()),
					logger.String("query", query),
					logger.ErrorField(err))
				return
			}
			buckets[i] = tracks
		}(i, p)
	}
	wg.Wait()

	merged := make([]model.Track, 0)
	for _, bucket := range buckets {
		merged = append(merged, bucket...)
	}

	logger.Debug("search fan-out finished",
		logger.String("query", query),
		logger.Int("providers", len(providers)),
		logger.Int("results", len(merged)),
		logger.Duration("elapsed", time.Since(start)))

	return merged, nil
}
