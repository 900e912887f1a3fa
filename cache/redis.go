package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/GajjarKashyap/Audio/config"
	"github.com/GajjarKashyap/Audio/logger"
)

const resolutionKeyPrefix = "resolve:"

// redisCache is a Redis-backed ResolutionCache. Useful when several
// instances on the same LAN should share resolved URLs; entries carry no
// TTL to keep the same lifetime semantics as the in-memory backend.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and returns a resolution cache backed by it.
func NewRedisCache(cfg *config.Config) (ResolutionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(ctx context.Context, id string) (string, bool) {
	val, err := c.client.Get(ctx, resolutionKeyPrefix+id).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("redis cache get failed", logger.String("id", id), logger.ErrorField(err))
		}
		return "", false
	}
	return val, true
}

func (c *redisCache) Put(ctx context.Context, id, url string) {
	if err := c.client.Set(ctx, resolutionKeyPrefix+id, url, 0).Err(); err != nil {
		logger.Warn("redis cache put failed", logger.String("id", id), logger.ErrorField(err))
	}
}

func (c *redisCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, resolutionKeyPrefix+id).Err(); err != nil {
		logger.Warn("redis cache delete failed", logger.String("id", id), logger.ErrorField(err))
	}
}
