package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GajjarKashyap/Audio/model"
)

const (
	jioSaavnAPIURL       = "https://www.jiosaavn.com/api.php"
	defaultJioSaavnLimit = 10
)

// JioSaavnProvider searches the regional streaming catalog through its
// public search endpoint.
type JioSaavnProvider struct {
	client *resty.Client
	apiURL string
}

// NewJioSaavnProvider creates a JioSaavn adapter. An empty apiURL selects
// the live endpoint; tests point it at a local server.
func NewJioSaavnProvider(apiURL string) *JioSaavnProvider {
	if apiURL == "" {
		apiURL = jioSaavnAPIURL
	}
	client := resty.New().
		SetTimeout(10 * time.Second)
	return &JioSaavnProvider{client: client, apiURL: apiURL}
}

func (p *JioSaavnProvider) Name() string {
	return model.SourceJioSaavn
}

type saavnArtist struct {
	Name string `json:"name"`
}

type saavnMoreInfo struct {
	Duration  string `json:"duration"`
	ArtistMap struct {
		PrimaryArtists []saavnArtist `json:"primary_artists"`
	} `json:"artistMap"`
}

type saavnSong struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Image    string        `json:"image"`
	PermaURL string        `json:"perma_url"`
	MoreInfo saavnMoreInfo `json:"more_info"`
}

type saavnSearchResponse struct {
	Results []saavnSong `json:"results"`
}

func (p *JioSaavnProvider) Search(ctx context.Context, query string, limit int) ([]model.Track, error) {
	if limit <= 0 {
		limit = defaultJioSaavnLimit
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"__call":      "search.getResults",
			"_format":     "json",
			"_marker":     "0",
			"api_version": "4",
			"p":           "1",
			"n":           strconv.Itoa(limit),
			"q":           query,
		}).
		Get(p.apiURL)
	if err != nil {
		return nil, fmt.Errorf("jiosaavn search %q: %w", query, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("jiosaavn search %q: status %s", query, resp.Status())
	}

	// The endpoint labels its JSON text/plain, so decode the raw body.
	var data saavnSearchResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("jiosaavn search %q: decode: %w", query, err)
	}

	tracks := make([]model.Track, 0, len(data.Results))
	for _, song := range data.Results {
		if song.Title == "" {
			continue
		}

		artist := "Unknown"
		if artists := song.MoreInfo.ArtistMap.PrimaryArtists; len(artists) > 0 && artists[0].Name != "" {
			artist = artists[0].Name
		} else if song.Subtitle != "" {
			artist = song.Subtitle
		}

		duration := 0
		if song.MoreInfo.Duration != "" {
			if d, err := strconv.Atoi(song.MoreInfo.Duration); err == nil {
				duration = d
			}
		}

		// Catalog hands out 150x150 art; the CDN serves 500x500 too.
		thumbnail := strings.Replace(song.Image, "150x150", "500x500", 1)

		tracks = append(tracks, model.Track{
			ID:        song.ID,
			Title:     song.Title,
			Artist:    artist,
			Duration:  duration,
			URL:       song.PermaURL,
			Thumbnail: thumbnail,
			Source:    model.SourceJioSaavn,
		})
	}

	return tracks, nil
}
