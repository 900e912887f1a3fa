package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GajjarKashyap/Audio/model"
)

func TestLibraryRepository_AddIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLLibraryRepository(db)
	track := &model.Track{
		ID: "dQw4w9WgXcQ", Title: "Numb", Artist: "Linkin Park",
		URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Source: model.SourceYouTube, Duration: 187,
	}

	// First insert creates the row, second is ignored: one row either way.
	mock.ExpectExec("INSERT IGNORE INTO library").
		WithArgs(track.ID, track.Title, track.Artist, track.URL, track.Thumbnail, track.Source, track.Duration).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT IGNORE INTO library").
		WithArgs(track.ID, track.Title, track.Artist, track.URL, track.Thumbnail, track.Source, track.Duration).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Add(context.Background(), track))
	require.NoError(t, repo.Add(context.Background(), track))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLibraryRepository_AddRequiresID(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewMySQLLibraryRepository(db).Add(context.Background(), &model.Track{Title: "Numb"})
	assert.Error(t, err)
}

func TestLibraryRepository_ListNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "artist", "url", "thumbnail", "source", "duration", "added_at"}).
		AddRow("b", "Faint", "Linkin Park", "https://y/b", "", model.SourceYouTube, 162, now).
		AddRow("a", "Numb", "Linkin Park", "https://y/a", "", model.SourceYouTube, 187, now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, title, artist, url, thumbnail, source, duration, added_at").
		WillReturnRows(rows)

	entries, err := NewMySQLLibraryRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Faint", entries[0].Title)
	assert.Equal(t, "Numb", entries[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLibraryRepository_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM library WHERE id").
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewMySQLLibraryRepository(db).Remove(context.Background(), "a"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
