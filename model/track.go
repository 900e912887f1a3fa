package model

import "time"

// Provider source tags. A track's Source identifies the adapter that
// produced it and the resolution path used when it is streamed later.
const (
	SourceYouTube    = "youtube"
	SourceSoundCloud = "soundcloud"
	SourceJioSaavn   = "jiosaavn"
)

// Track is the normalized result shape shared by search, recommendation
// and storage. Tracks are value objects: adapters emit them fully
// populated and no later stage mutates them; they are only filtered or
// stored verbatim. IDs are provider-scoped, not globally unique.
type Track struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Duration  int    `json:"duration"` // seconds, 0 when unknown
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Source    string `json:"source"`
}

// LibraryEntry is a track persisted in the user's library.
type LibraryEntry struct {
	Track
	AddedAt time.Time `json:"addedAt"`
}

// Playlist is a named collection of saved tracks.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryEntry records a single playback of a track. The full track is
// kept alongside the id so history rendering never re-queries providers.
type HistoryEntry struct {
	ID       int64     `json:"id"`
	SongID   string    `json:"songId"`
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"playedAt"`
}
