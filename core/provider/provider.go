// Package provider contains the adapters for the external music
// catalogs. Each adapter normalizes its catalog's results into
// model.Track; a failing adapter returns an error and the caller treats
// it as zero results.
package provider

import (
	"context"

	"github.com/GajjarKashyap/Audio/model"
)

// Provider is one external music catalog.
type Provider interface {
	// Name returns the source tag stamped on every track this provider emits.
	Name() string

	// Search returns up to limit normalized tracks for a free-text query.
	// limit <= 0 selects the provider's default.
	Search(ctx context.Context, query string, limit int) ([]model.Track, error)
}
