package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Values come from the
// environment (optionally via a .env file) with simple defaults.
type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Resolution cache backend: "memory" (default) or "redis".
	CacheBackend  string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Provider toggles. SoundCloud defaults to off: its flat extraction
	// is slow enough to drag the whole fan-out.
	EnableYouTube    bool
	EnableSoundCloud bool
	EnableJioSaavn   bool

	YtdlpPath   string
	DownloadDir string
	StaticDir   string

	LogLevel  string
	LogOutput string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "5000"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "nexus"),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableYouTube:    getEnvBool("ENABLE_YOUTUBE", true),
		EnableSoundCloud: getEnvBool("ENABLE_SOUNDCLOUD", false),
		EnableJioSaavn:   getEnvBool("ENABLE_JIOSAAVN", true),

		YtdlpPath:   getEnv("YTDLP_PATH", "yt-dlp"),
		DownloadDir: getEnv("DOWNLOAD_DIR", "downloads"),
		StaticDir:   getEnv("STATIC_DIR", "static"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogOutput: getEnv("LOG_OUTPUT", ""),
	}
}
