// Package cache holds the redis-backed category cache. The category table
// is tiny and nearly immutable, so a short TTL read-through cache in front
// of it spares a query on every /questions request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"showbook/internal/logger"
)

const categoriesKey = "trivia:categories"

type CategoryCache struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

// NewCategoryCache connects to redis and verifies the connection before
// handing the cache out.
func NewCategoryCache(addr string, ttl time.Duration, log *logger.Logger) (*CategoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		if log != nil {
			log.Error("CACHE", fmt.Sprintf("Failed to connect to Redis at %s: %v", addr, err))
		}
		return nil, err
	}

	if log != nil {
		log.Info("CACHE", fmt.Sprintf("Connected to Redis at %s for category caching", addr))
	}
	return &CategoryCache{Client: client, TTL: ttl, Logger: log}, nil
}

// GetCategories returns the cached map; a miss or a decode failure reads
// as "not cached" so the caller falls back to storage.
func (c *CategoryCache) GetCategories(ctx context.Context) (map[int64]string, bool) {
	raw, err := c.Client.Get(ctx, categoriesKey).Result()
	if err != nil {
		return nil, false
	}

	var categories map[int64]string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		if c.Logger != nil {
			c.Logger.Warn("CACHE", fmt.Sprintf("Discarding unreadable category cache entry: %v", err))
		}
		return nil, false
	}
	return categories, true
}

// SetCategories stores the map with the configured TTL. Failures are
// logged and swallowed: the cache is an optimization, never a dependency.
func (c *CategoryCache) SetCategories(ctx context.Context, categories map[int64]string) {
	raw, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, categoriesKey, raw, c.TTL).Err(); err != nil && c.Logger != nil {
		c.Logger.Warn("CACHE", fmt.Sprintf("Failed to cache categories: %v", err))
	}
}

func (c *CategoryCache) Close() error {
	return c.Client.Close()
}
