package provider

import (
	"context"
	"fmt"

	"github.com/GajjarKashyap/Audio/core/extractor"
	"github.com/GajjarKashyap/Audio/model"
)

const defaultSoundCloudLimit = 5

// SoundCloudProvider searches the audio platform through the extractor's
// scsearch mode. Disabled by default in config: its flat extraction is
// noticeably slower than YouTube's.
type SoundCloudProvider struct {
	ex extractor.Extractor
}

// NewSoundCloudProvider creates a SoundCloud adapter over the given extractor.
func NewSoundCloudProvider(ex extractor.Extractor) *SoundCloudProvider {
	return &SoundCloudProvider{ex: ex}
}

func (p *SoundCloudProvider) Name() string {
	return model.SourceSoundCloud
}

func (p *SoundCloudProvider) Search(ctx context.Context, query string, limit int) ([]model.Track, error) {
	if limit <= 0 {
		limit = defaultSoundCloudLimit
	}

	target := fmt.Sprintf("scsearch%d:%s", limit, query)
	info, err := p.ex.Extract(ctx, target, extractor.Options{
		Flat:       true,
		NoPlaylist: true,
		Quiet:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("soundcloud search %q: %w", query, err)
	}

	tracks := make([]model.Track, 0, len(info.Entries))
	for _, entry := range info.Entries {
		if entry.Title == "" {
			continue
		}

		// On SoundCloud the uploader is usually the artist.
		artist := entry.Uploader
		if artist == "" {
			artist = "Unknown"
		}

		tracks = append(tracks, model.Track{
			ID:        entry.ID,
			Title:     entry.Title,
			Artist:    artist,
			Duration:  int(entry.Duration),
			URL:       entry.URL,
			Thumbnail: entry.Thumbnail,
			Source:    model.SourceSoundCloud,
		})
	}

	return tracks, nil
}
