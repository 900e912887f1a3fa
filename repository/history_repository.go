package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/GajjarKashyap/Audio/model"
)

// HistoryRepository records and lists track playbacks.
type HistoryRepository interface {
	Record(ctx context.Context, track *model.Track) error
	Recent(ctx context.Context, limit int) ([]*model.HistoryEntry, error)
}

// mysqlHistoryRepository implements HistoryRepository for MySQL.
type mysqlHistoryRepository struct {
	DB *sql.DB
}

// NewMySQLHistoryRepository creates a new instance of mysqlHistoryRepository.
func NewMySQLHistoryRepository(db *sql.DB) HistoryRepository {
	return &mysqlHistoryRepository{DB: db}
}

// Record appends a playback row. Repeated plays of the same track are
// separate rows on purpose.
func (r *mysqlHistoryRepository) Record(ctx context.Context, track *model.Track) error {
	songJSON, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to serialize track %s: %w", track.ID, err)
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO history (song_id, song_json) VALUES (?, ?)`,
		track.ID, songJSON)
	if err != nil {
		return fmt.Errorf("failed to record play of track %s: %w", track.ID, err)
	}
	return nil
}

// Recent returns the latest playbacks, newest first.
func (r *mysqlHistoryRepository) Recent(ctx context.Context, limit int) ([]*model.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, song_id, song_json, played_at FROM history ORDER BY played_at DESC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.HistoryEntry, 0)
	for rows.Next() {
		entry := &model.HistoryEntry{}
		var raw []byte
		if err := rows.Scan(&entry.ID, &entry.SongID, &raw, &entry.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := json.Unmarshal(raw, &entry.Track); err != nil {
			return nil, fmt.Errorf("failed to decode history entry %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during history rows iteration: %w", err)
	}

	return entries, nil
}
