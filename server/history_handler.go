package server

import (
	"encoding/json"
	"net/http"

	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
)

// HistoryHandler dispatches the play-history endpoint.
// GET /api/history, POST /api/history (body = track JSON)
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getHistory(w, r)
	case http.MethodPost:
		s.recordPlay(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.History.Recent(r.Context(), 50)
	if err != nil {
		logger.Error("failed to load history", logger.ErrorField(err))
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (s *Server) recordPlay(w http.ResponseWriter, r *http.Request) {
	var track model.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil || track.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "Invalid track JSON",
		})
		return
	}

	if err := s.deps.History.Record(r.Context(), &track); err != nil {
		logger.Error("failed to record play",
			logger.String("trackId", track.ID),
			logger.ErrorField(err))
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}

	// Party-mode listeners follow along with whatever is being played.
	s.deps.Hub.BroadcastNowPlaying(track)

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
