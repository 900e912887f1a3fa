package server

import (
	"encoding/json"
	"net/http"

	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
)

// LibraryHandler dispatches the library collection endpoint.
// GET /api/library, POST /api/library, DELETE /api/library?id=...
func (s *Server) LibraryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getLibrary(w, r)
	case http.MethodPost:
		s.addToLibrary(w, r)
	case http.MethodDelete:
		s.removeFromLibrary(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.Library.List(r.Context())
	if err != nil {
		logger.Error("failed to list library", logger.ErrorField(err))
		http.Error(w, "Failed to load library", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"library": entries})
}

func (s *Server) addToLibrary(w http.ResponseWriter, r *http.Request) {
	var track model.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "Invalid track JSON",
		})
		return
	}

	// Re-saving an already saved track is fine; the insert is idempotent.
	if err := s.deps.Library.Add(r.Context(), &track); err != nil {
		logger.Error("failed to add library entry",
			logger.String("trackId", track.ID),
			logger.ErrorField(err))
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) removeFromLibrary(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "No id",
		})
		return
	}

	if err := s.deps.Library.Remove(r.Context(), id); err != nil {
		logger.Error("failed to remove library entry",
			logger.String("trackId", id),
			logger.ErrorField(err))
		http.Error(w, "Failed to remove entry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
