package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GajjarKashyap/Audio/logger"
)

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// SearchHandler fans the query out to the enabled providers.
// GET /api/search?q=...
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No query"})
		return
	}

	results, err := s.deps.Aggregator.Search(r.Context(), query)
	if err != nil {
		// The aggregator only fails on an empty query; provider outages
		// already degraded to zero results inside it.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// RecommendHandler derives a mix query from the seed and searches the
// video platform with it.
// GET /api/recommend?artist=...&track=...
func (s *Server) RecommendHandler(w http.ResponseWriter, r *http.Request) {
	seedArtist := r.URL.Query().Get("artist")
	seedTrack := r.URL.Query().Get("track")

	recommendations := s.deps.Recommender.Recommend(r.Context(), seedArtist, seedTrack)
	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recommendations})
}

// LyricsHandler looks up plain and synced lyrics.
// GET /api/lyrics?track=...&artist=...&duration=...
func (s *Server) LyricsHandler(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	artist := r.URL.Query().Get("artist")
	duration, _ := strconv.Atoi(r.URL.Query().Get("duration"))

	result := s.deps.Lyrics.Lookup(r.Context(), track, artist, duration)
	writeJSON(w, http.StatusOK, result)
}

// DownloadHandler saves a track's audio into the download folder.
// GET /api/download?url=...
func (s *Server) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	pageURL := r.URL.Query().Get("url")
	if pageURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "No URL",
		})
		return
	}

	file, err := s.deps.Extractor.Download(r.Context(), pageURL, s.cfg.DownloadDir)
	if err != nil {
		logger.Error("download failed", logger.String("url", pageURL), logger.ErrorField(err))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "file": file})
}

// PartyInfoHandler reports the server's LAN address so other devices can
// open the UI.
// GET /api/party_info
func (s *Server) PartyInfoHandler(w http.ResponseWriter, r *http.Request) {
	ip := localIP()
	writeJSON(w, http.StatusOK, map[string]string{
		"ip":   ip,
		"port": s.cfg.ServerPort,
		"url":  "http://" + net.JoinHostPort(ip, s.cfg.ServerPort),
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same trust model as the CORS middleware: anyone on the LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PartyWSHandler subscribes a client to now-playing broadcasts.
// GET /ws/party
func (s *Server) PartyWSHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("party upgrade failed", logger.ErrorField(err))
		return
	}

	s.deps.Hub.Add(conn)
	defer s.deps.Hub.Remove(conn)

	// Clients only listen; the read loop exists to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ShutdownHandler triggers a graceful stop. The signal is delayed on a
// timer so this response flushes before the listener closes.
// POST /api/shutdown
func (s *Server) ShutdownHandler(w http.ResponseWriter, r *http.Request) {
	logger.Info("sleep timer triggered, shutting down server")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true, "message": "Goodnight!",
	})

	time.AfterFunc(time.Second, func() {
		s.shutdownOnce.Do(func() { close(s.shutdownCh) })
	})
}

// localIP finds the address this host uses to reach out, which is the
// one other LAN devices can reach back on. No packet is sent.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
