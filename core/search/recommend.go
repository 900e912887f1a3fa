package search

import (
	"context"
	"fmt"

	"github.com/GajjarKashyap/Audio/core/provider"
	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
)

const mixResultLimit = 5

// Recommender piggybacks on the video platform's own related-content
// logic: searching "<artist> <track> Mix" surfaces its mix playlists and
// related uploads for the seed.
type Recommender struct {
	video provider.Provider
}

// NewRecommender creates a recommender over the video-platform provider.
func NewRecommender(video provider.Provider) *Recommender {
	return &Recommender{video: video}
}

// Recommend returns tracks related to the seed, excluding the seed track
// itself by exact title match. Exact means case-sensitive equality:
// near-duplicates with different casing or suffixes pass through.
func (r *Recommender) Recommend(ctx context.Context, seedArtist, seedTrack string) []model.Track {
	query := fmt.Sprintf("%s %s Mix", seedArtist, seedTrack)

	results, err := r.video.Search(ctx, query, mixResultLimit)
	if err != nil {
		logger.Warn("recommendation search failed",
			logger.String("query", query),
			logger.ErrorField(err))
		return []model.Track{}
	}

	filtered := make([]model.Track, 0, len(results))
	for _, track := range results {
		if track.Title == seedTrack {
			continue
		}
		filtered = append(filtered, track)
	}
	return filtered
}
