package server

import (
	"net/http"

	"github.com/GajjarKashyap/Audio/logger"
)

// StreamHandler proxies a track's audio bytes through the server.
// GET /stream?url=<page url>&id=<track id, optional>
//
// The id keys the resolution cache; without it every play re-runs
// extraction.
func (s *Server) StreamHandler(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	trackID := r.URL.Query().Get("id")

	if pageURL == "" {
		http.Error(w, "No URL", http.StatusBadRequest)
		return
	}

	if err := s.deps.Proxy.ServeAudio(w, r, pageURL, trackID); err != nil {
		logger.Error("stream failed",
			logger.String("url", pageURL),
			logger.String("trackId", trackID),
			logger.ErrorField(err))
		// The audio player needs to know playback cannot proceed. If the
		// relay already started, this write is a no-op on a dead
		// connection.
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
