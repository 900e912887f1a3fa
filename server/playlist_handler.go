package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
	"github.com/GajjarKashyap/Audio/repository"
)

// PlaylistsHandler dispatches the playlist collection endpoint.
// GET /api/playlists, POST /api/playlists {"name": ...}
func (s *Server) PlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPlaylists(w, r)
	case http.MethodPost:
		s.createPlaylist(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.deps.Playlists.List(r.Context())
	if err != nil {
		logger.Error("failed to list playlists", logger.ErrorField(err))
		http.Error(w, "Failed to load playlists", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "error": "Name required",
		})
		return
	}

	playlist, err := s.deps.Playlists.Create(r.Context(), body.Name)
	if err != nil {
		// A taken name is an expected condition, reported in-band.
		if !errors.Is(err, repository.ErrDuplicatePlaylist) {
			logger.Error("failed to create playlist",
				logger.String("name", body.Name),
				logger.ErrorField(err))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true, "id": playlist.ID, "name": playlist.Name,
	})
}

// PlaylistAddHandler appends a track to a playlist.
// POST /api/playlists/{id}/add, body = track JSON
func (s *Server) PlaylistAddHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}

	var track model.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil || track.ID == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "error": "Invalid track JSON",
		})
		return
	}

	if err := s.deps.Playlists.AddSong(r.Context(), playlistID, &track); err != nil {
		if !errors.Is(err, repository.ErrDuplicateSong) {
			logger.Error("failed to add track to playlist",
				logger.Int64("playlistId", playlistID),
				logger.String("trackId", track.ID),
				logger.ErrorField(err))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// PlaylistSongsHandler returns a playlist's tracks.
// GET /api/playlists/{id}
func (s *Server) PlaylistSongsHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist id", http.StatusBadRequest)
		return
	}

	songs, err := s.deps.Playlists.Songs(r.Context(), playlistID)
	if err != nil {
		logger.Error("failed to load playlist songs",
			logger.Int64("playlistId", playlistID),
			logger.ErrorField(err))
		http.Error(w, "Failed to load playlist", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"songs": songs})
}
