package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, "yt-dlp", cfg.YtdlpPath)
	assert.Equal(t, "downloads", cfg.DownloadDir)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.True(t, cfg.EnableYouTube)
	assert.True(t, cfg.EnableJioSaavn)
	assert.False(t, cfg.EnableSoundCloud, "slow flat extraction keeps it off by default")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("ENABLE_YOUTUBE", "false")
	t.Setenv("ENABLE_SOUNDCLOUD", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.False(t, cfg.EnableYouTube)
	assert.True(t, cfg.EnableSoundCloud)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("ENABLE_YOUTUBE", "not-a-bool")
	t.Setenv("REDIS_DB", "not-an-int")

	cfg := Load()

	assert.True(t, cfg.EnableYouTube)
	assert.Equal(t, 0, cfg.RedisDB)
}
