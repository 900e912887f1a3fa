package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GajjarKashyap/Audio/model"
)

type recordingProvider struct {
	fakeProvider
	lastQuery string
}

func (r *recordingProvider) Search(ctx context.Context, query string, limit int) ([]model.Track, error) {
	r.lastQuery = query
	return r.fakeProvider.Search(ctx, query, limit)
}

func TestRecommender_BuildsMixQuery(t *testing.T) {
	video := &recordingProvider{}

	NewRecommender(video).Recommend(context.Background(), "Linkin Park", "Numb")

	assert.Equal(t, "Linkin Park Numb Mix", video.lastQuery)
	assert.Equal(t, mixResultLimit, video.lastLimit)
}

func TestRecommender_FiltersSeedTrackExactly(t *testing.T) {
	video := &recordingProvider{
		fakeProvider: fakeProvider{
			tracks: []model.Track{
				{ID: "a", Title: "Numb", Source: model.SourceYouTube},
				{ID: "b", Title: "numb", Source: model.SourceYouTube},
				{ID: "c", Title: "Numb (Official Video)", Source: model.SourceYouTube},
				{ID: "d", Title: "In the End", Source: model.SourceYouTube},
			},
		},
	}

	recs := NewRecommender(video).Recommend(context.Background(), "Linkin Park", "Numb")

	require.Len(t, recs, 3)
	for _, track := range recs {
		assert.NotEqual(t, "Numb", track.Title, "exact seed title must be filtered")
	}
	// Equality is case-sensitive: near-duplicates pass through.
	assert.Equal(t, "numb", recs[0].Title)
	assert.Equal(t, "Numb (Official Video)", recs[1].Title)
}

func TestRecommender_ProviderFailureYieldsEmpty(t *testing.T) {
	video := &recordingProvider{
		fakeProvider: fakeProvider{err: errors.New("quota exceeded")},
	}

	recs := NewRecommender(video).Recommend(context.Background(), "Linkin Park", "Numb")

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
