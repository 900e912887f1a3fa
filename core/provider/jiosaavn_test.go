package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GajjarKashyap/Audio/model"
)

const saavnFixture = `{
	"results": [
		{
			"id": "5WXALbrf",
			"title": "Kesariya",
			"subtitle": "Arijit Singh - Brahmastra",
			"image": "https://c.saavncdn.com/191/art-150x150.jpg",
			"perma_url": "https://www.jiosaavn.com/song/kesariya/5WXALbrf",
			"more_info": {
				"duration": "268",
				"artistMap": {
					"primary_artists": [{"name": "Arijit Singh"}, {"name": "Pritam"}]
				}
			}
		},
		{
			"id": "sub-only",
			"title": "Tum Hi Ho",
			"subtitle": "Aashiqui 2",
			"image": "",
			"perma_url": "https://www.jiosaavn.com/song/tum-hi-ho/x",
			"more_info": {"duration": "not-a-number"}
		},
		{
			"id": "bare",
			"title": "Channa Mereya",
			"perma_url": "https://www.jiosaavn.com/song/channa-mereya/y",
			"more_info": {}
		},
		{
			"id": "untitled",
			"perma_url": "https://www.jiosaavn.com/song/z"
		}
	]
}`

func TestJioSaavnProvider_Search(t *testing.T) {
	var gotQuery map[string]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"__call":      q.Get("__call"),
			"api_version": q.Get("api_version"),
			"n":           q.Get("n"),
			"q":           q.Get("q"),
		}
		// The real endpoint labels JSON as text/plain.
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(saavnFixture))
	}))
	defer upstream.Close()

	p := NewJioSaavnProvider(upstream.URL)
	tracks, err := p.Search(context.Background(), "kesariya", 0)
	require.NoError(t, err)

	assert.Equal(t, "search.getResults", gotQuery["__call"])
	assert.Equal(t, "4", gotQuery["api_version"])
	assert.Equal(t, "10", gotQuery["n"], "default limit is 10")
	assert.Equal(t, "kesariya", gotQuery["q"])

	// The untitled record is dropped.
	require.Len(t, tracks, 3)

	assert.Equal(t, model.Track{
		ID:        "5WXALbrf",
		Title:     "Kesariya",
		Artist:    "Arijit Singh",
		Duration:  268,
		URL:       "https://www.jiosaavn.com/song/kesariya/5WXALbrf",
		Thumbnail: "https://c.saavncdn.com/191/art-500x500.jpg",
		Source:    model.SourceJioSaavn,
	}, tracks[0])

	// No artist map: the subtitle stands in; bad duration becomes 0.
	assert.Equal(t, "Aashiqui 2", tracks[1].Artist)
	assert.Equal(t, 0, tracks[1].Duration)

	assert.Equal(t, "Unknown", tracks[2].Artist)
}

func TestJioSaavnProvider_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	_, err := NewJioSaavnProvider(upstream.URL).Search(context.Background(), "kesariya", 0)
	assert.Error(t, err)
}

func TestJioSaavnProvider_Name(t *testing.T) {
	assert.Equal(t, model.SourceJioSaavn, NewJioSaavnProvider("").Name())
}
