// Package lyrics looks up plain and LRC-timed lyrics on LRCLIB.
package lyrics

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
)

const defaultBaseURL = "https://lrclib.net"

// Client queries the LRCLIB get endpoint. Lookups carry a 5 second
// timeout and are never retried; a miss is an ordinary result.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a lyrics client. An empty baseURL selects lrclib.net.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    resty.New().SetTimeout(5 * time.Second),
		baseURL: baseURL,
	}
}

// Lookup matches lyrics by track and artist name; duration (seconds,
// optional, 0 to omit) narrows the match.
func (c *Client) Lookup(ctx context.Context, track, artist string, duration int) model.LyricsResult {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("track_name", track).
		SetQueryParam("artist_name", artist)
	if duration > 0 {
		req.SetQueryParam("duration", strconv.Itoa(duration))
	}

	resp, err := req.Get(c.baseURL + "/api/get")
	if err != nil {
		logger.Warn("lyrics lookup failed",
			logger.String("track", track),
			logger.String("artist", artist),
			logger.ErrorField(err))
		return model.LyricsResult{Found: false, Error: err.Error()}
	}

	if resp.StatusCode() != 200 {
		return model.LyricsResult{Found: false, Error: "Lyrics not found"}
	}

	var body struct {
		PlainLyrics  string `json:"plainLyrics"`
		SyncedLyrics string `json:"syncedLyrics"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return model.LyricsResult{Found: false, Error: err.Error()}
	}

	return model.LyricsResult{
		Found:  true,
		Plain:  body.PlainLyrics,
		Synced: body.SyncedLyrics,
	}
}
