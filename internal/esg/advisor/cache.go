package advisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/internal/platform/config"
	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key/value store behind Cached.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache is a Cache backed by redis.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to cfg.Addr and pings it.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return v, err
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Close() error { return c.rdb.Close() }

// Cached memoizes another advisor by answer fingerprint and total score.
// Cache failures are logged and never fail a request.
type Cached struct {
	next  Advisor
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCached(next Advisor, cache Cache, ttl time.Duration, log *logger.Logger) *Cached {
	return &Cached{next: next, cache: cache, ttl: ttl, log: log.With("component", "advisor-cache")}
}

// Key returns the cache key for an assessment.
func Key(a *schema.Assessment, raw rubric.Answers) (string, error) {
	fp, err := history.Fingerprint(raw)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("advice:%s:%.0f", fp, a.Total), nil
}

func (c *Cached) Feedback(ctx context.Context, a *schema.Assessment, raw rubric.Answers) (string, error) {
	key, err := Key(a, raw)
	if err != nil {
		return "", err
	}
	v, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.log.Debug("advice cache hit", "key", key)
		return v, nil
	case !errors.Is(err, ErrCacheMiss):
		c.log.Warn("advice cache read failed", "error", err)
	}

	text, err := c.next.Feedback(ctx, a, raw)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, text, c.ttl); err != nil {
		c.log.Warn("advice cache write failed", "error", err)
	}
	return text, nil
}
