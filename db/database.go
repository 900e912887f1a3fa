package db

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/GajjarKashyap/Audio/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	if err := createLibraryTable(); err != nil {
		return err
	}
	if err := createHistoryTable(); err != nil {
		return err
	}
	if err := createPlaylistsTable(); err != nil {
		return err
	}
	if err := createPlaylistSongsTable(); err != nil {
		return err
	}

	log.Println("Database initialization completed.")
	return nil
}

func createLibraryTable() error {
	// The primary key is the provider-scoped track id, stored verbatim.
	query := `
	CREATE TABLE IF NOT EXISTS library (
		id VARCHAR(191) PRIMARY KEY,
		title VARCHAR(512),
		artist VARCHAR(512),
		url VARCHAR(1024),
		thumbnail VARCHAR(1024),
		source VARCHAR(32),
		duration INT DEFAULT 0,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create library table: %w", err)
	}
	return nil
}

func createHistoryTable() error {
	// song_json keeps the full serialized track so history renders
	// without touching providers again.
	query := `
	CREATE TABLE IF NOT EXISTS history (
		id INT AUTO_INCREMENT PRIMARY KEY,
		song_id VARCHAR(191),
		song_json TEXT,
		played_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}
	return nil
}

func createPlaylistsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS playlists (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(191) NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create playlists table: %w", err)
	}
	return nil
}

func createPlaylistSongsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS playlist_songs (
		id INT AUTO_INCREMENT PRIMARY KEY,
		playlist_id INT NOT NULL,
		song_id VARCHAR(191),
		song_json TEXT,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_playlist_songs FOREIGN KEY (playlist_id) REFERENCES playlists(id) ON DELETE CASCADE,
		CONSTRAINT uq_playlist_song UNIQUE (playlist_id, song_id)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create playlist_songs table: %w", err)
	}
	return nil
}
