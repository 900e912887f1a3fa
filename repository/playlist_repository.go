package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/GajjarKashyap/Audio/model"
)

// Expected, recoverable store conditions. Handlers report these as
// structured {success:false, error} bodies rather than HTTP errors.
var (
	ErrDuplicatePlaylist = errors.New("Playlist already exists")
	ErrDuplicateSong     = errors.New("Song already in playlist")
)

const mysqlErrDuplicateEntry = 1062

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	Create(ctx context.Context, name string) (*model.Playlist, error)
	List(ctx context.Context) ([]*model.Playlist, error)
	AddSong(ctx context.Context, playlistID int64, track *model.Track) error
	Songs(ctx context.Context, playlistID int64) ([]*model.Track, error)
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	DB *sql.DB
}

// NewMySQLPlaylistRepository creates a new instance of mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{DB: db}
}

// Create inserts a new empty playlist. A name that is already taken
// yields ErrDuplicatePlaylist.
func (r *mysqlPlaylistRepository) Create(ctx context.Context, name string) (*model.Playlist, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO playlists (name) VALUES (?)`, name)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return nil, ErrDuplicatePlaylist
		}
		return nil, fmt.Errorf("failed to insert playlist %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get id of playlist %q: %w", name, err)
	}

	return &model.Playlist{ID: id, Name: name}, nil
}

// List returns all playlists, most recently created first.
func (r *mysqlPlaylistRepository) List(ctx context.Context) ([]*model.Playlist, error) {
	query := `SELECT id, name, created_at FROM playlists ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		p := &model.Playlist{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during playlist rows iteration: %w", err)
	}

	return playlists, nil
}

// AddSong appends a track to a playlist, storing the full serialized
// track next to the membership row. Adding a track id that is already a
// member yields ErrDuplicateSong.
func (r *mysqlPlaylistRepository) AddSong(ctx context.Context, playlistID int64, track *model.Track) error {
	var existing int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
		playlistID, track.ID).Scan(&existing)
	if err == nil {
		return ErrDuplicateSong
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check playlist %d membership: %w", playlistID, err)
	}

	songJSON, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to serialize track %s: %w", track.ID, err)
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO playlist_songs (playlist_id, song_id, song_json) VALUES (?, ?, ?)`,
		playlistID, track.ID, songJSON)
	if err != nil {
		// Backstop for two concurrent adds racing past the check.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return ErrDuplicateSong
		}
		return fmt.Errorf("failed to add track %s to playlist %d: %w", track.ID, playlistID, err)
	}
	return nil
}

// Songs returns a playlist's tracks, most recently added first,
// deserialized from the stored JSON.
func (r *mysqlPlaylistRepository) Songs(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	query := `SELECT song_json FROM playlist_songs WHERE playlist_id = ? ORDER BY added_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs of playlist %d: %w", playlistID, err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		track := &model.Track{}
		if err := json.Unmarshal(raw, track); err != nil {
			return nil, fmt.Errorf("failed to decode playlist song: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during playlist song rows iteration: %w", err)
	}

	return tracks, nil
}
