package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GajjarKashyap/Audio/model"
)

// LibraryRepository defines the interface for saved-track operations.
type LibraryRepository interface {
	Add(ctx context.Context, track *model.Track) error
	List(ctx context.Context) ([]*model.LibraryEntry, error)
	Remove(ctx context.Context, id string) error
}

// mysqlLibraryRepository implements LibraryRepository for MySQL.
type mysqlLibraryRepository struct {
	DB *sql.DB
}

// NewMySQLLibraryRepository creates a new instance of mysqlLibraryRepository.
func NewMySQLLibraryRepository(db *sql.DB) LibraryRepository {
	return &mysqlLibraryRepository{DB: db}
}

// Add saves a track to the library. Inserting an id that is already
// present is a silent no-op, not an error.
func (r *mysqlLibraryRepository) Add(ctx context.Context, track *model.Track) error {
	if track.ID == "" {
		return fmt.Errorf("track has no id")
	}

	query := `INSERT IGNORE INTO library (id, title, artist, url, thumbnail, source, duration)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query,
		track.ID, track.Title, track.Artist, track.URL, track.Thumbnail, track.Source, track.Duration)
	if err != nil {
		return fmt.Errorf("failed to insert library entry %s: %w", track.ID, err)
	}
	return nil
}

// List returns all library entries, most recently added first.
func (r *mysqlLibraryRepository) List(ctx context.Context) ([]*model.LibraryEntry, error) {
	query := `SELECT id, title, artist, url, thumbnail, source, duration, added_at
	           FROM library ORDER BY added_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query library: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.LibraryEntry, 0)
	for rows.Next() {
		entry := &model.LibraryEntry{}
		err := rows.Scan(&entry.ID, &entry.Title, &entry.Artist, &entry.URL,
			&entry.Thumbnail, &entry.Source, &entry.Duration, &entry.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan library entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during library rows iteration: %w", err)
	}

	return entries, nil
}

// Remove deletes a library entry by track id. Removing an unknown id is
// not an error.
func (r *mysqlLibraryRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM library WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete library entry %s: %w", id, err)
	}
	return nil
}
