package provider

import (
	"context"
	"fmt"

	"github.com/GajjarKashyap/Audio/core/extractor"
	"github.com/GajjarKashyap/Audio/model"
)

const defaultYouTubeLimit = 5

// YouTubeProvider searches the video platform through the extractor's
// flat search mode, which returns metadata without resolving playback
// formats.
type YouTubeProvider struct {
	ex extractor.Extractor
}

// NewYouTubeProvider creates a YouTube adapter over the given extractor.
func NewYouTubeProvider(ex extractor.Extractor) *YouTubeProvider {
	return &YouTubeProvider{ex: ex}
}

func (p *YouTubeProvider) Name() string {
	return model.SourceYouTube
}

func (p *YouTubeProvider) Search(ctx context.Context, query string, limit int) ([]model.Track, error) {
	if limit <= 0 {
		limit = defaultYouTubeLimit
	}

	target := fmt.Sprintf("ytsearch%d:%s", limit, query)
	info, err := p.ex.Extract(ctx, target, extractor.Options{
		Flat:       true,
		NoPlaylist: true,
		Quiet:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	tracks := make([]model.Track, 0, len(info.Entries))
	for _, entry := range info.Entries {
		if entry.Title == "" {
			continue
		}

		// YouTube usually puts the artist in the channel name.
		artist := entry.Channel
		if artist == "" {
			artist = entry.Uploader
		}
		if artist == "" {
			artist = "Unknown"
		}

		url := entry.URL
		if url == "" {
			url = "https://www.youtube.com/watch?v=" + entry.ID
		}

		tracks = append(tracks, model.Track{
			ID:        entry.ID,
			Title:     entry.Title,
			Artist:    artist,
			Duration:  int(entry.Duration),
			URL:       url,
			Thumbnail: entry.Thumbnail,
			Source:    model.SourceYouTube,
		})
	}

	return tracks, nil
}
