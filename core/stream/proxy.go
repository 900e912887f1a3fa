// Package stream implements the audio relay: resolve a track page URL to
// a direct media URL (cache first, extractor on miss) and pipe the bytes
// through to the caller.
package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GajjarKashyap/Audio/cache"
	"github.com/GajjarKashyap/Audio/core/extractor"
	"github.com/GajjarKashyap/Audio/logger"
)

const (
	chunkSize = 32 * 1024

	// CDNs serving the resolved URLs reject requests without a
	// browser-looking User-Agent.
	relayUserAgent = "Mozilla/5.0"
)

// Proxy streams remote audio through the server. The only state it
// shares across requests is the resolution cache.
type Proxy struct {
	cache  cache.ResolutionCache
	ex     extractor.Extractor
	client *http.Client
}

// NewProxy creates a streaming proxy over the given cache and extractor.
func NewProxy(c cache.ResolutionCache, ex extractor.Extractor) *Proxy {
	return &Proxy{
		cache: c,
		ex:    ex,
		// No overall timeout: streams are long-lived. The transport
		// bounds the connect and header phases instead.
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 15 * time.Second,
			},
		},
	}
}

// ServeAudio resolves pageURL and relays the audio bytes to w as an
// audio/mpeg chunked response. A non-nil error means playback cannot
// proceed and, if nothing was written yet, the caller should answer
// with a server error.
//
// A relay failure against a cached URL evicts the entry, re-resolves
// once and retries, so an expired CDN link heals on the next play
// attempt instead of poisoning every replay until restart. A freshly
// resolved URL that fails is not retried.
func (p *Proxy) ServeAudio(w http.ResponseWriter, r *http.Request, pageURL, trackID string) error {
	ctx := r.Context()

	directURL, fromCache, err := p.resolve(ctx, pageURL, trackID)
	if err != nil {
		return err
	}

	started, err := p.relay(ctx, w, directURL)
	if err == nil || started || !fromCache {
		return err
	}

	// Stale cache entry: nothing was written, so the response can still
	// be restarted against a fresh URL.
	logger.Warn("relay failed on cached URL, re-resolving",
		logger.String("trackId", trackID),
		logger.ErrorField(err))
	p.cache.Delete(ctx, trackID)

	directURL, _, err = p.resolve(ctx, pageURL, trackID)
	if err != nil {
		return err
	}
	_, err = p.relay(ctx, w, directURL)
	return err
}

// resolve returns the direct audio URL for a track, noting whether it
// came from the cache. On a miss the freshly resolved URL is recorded
// under trackID, when one was supplied.
func (p *Proxy) resolve(ctx context.Context, pageURL, trackID string) (string, bool, error) {
	if trackID != "" {
		if url, ok := p.cache.Get(ctx, trackID); ok {
			logger.Debug("resolution cache hit", logger.String("trackId", trackID))
			return url, true, nil
		}
	}

	logger.Debug("resolution cache miss",
		logger.String("trackId", trackID),
		logger.String("pageUrl", pageURL))

	url, err := p.ex.Resolve(ctx, pageURL)
	if err != nil {
		return "", false, err
	}

	if trackID != "" {
		p.cache.Put(ctx, trackID, url)
	}
	return url, false, nil
}

// relay fetches directURL and copies it to w in fixed-size chunks,
// flushing each one. started reports whether any body bytes were
// written. A caller disconnect aborts the upstream read and is not an
// error; the content type is fixed to audio/mpeg regardless of the true
// encoding.
func (p *Proxy) relay(ctx context.Context, w http.ResponseWriter, directURL string) (started bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", relayUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("upstream returned %s", resp.Status)
	}

	w.Header().Set("Content-Type", "audio/mpeg")

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				// Caller went away; stop pulling from upstream.
				return true, nil
			}
			started = true
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return started, nil
		}
		if readErr != nil {
			if ctx.Err() != nil {
				// Disconnect cancelled the request context mid-read.
				return started, nil
			}
			return started, fmt.Errorf("upstream read failed: %w", readErr)
		}
	}
}
