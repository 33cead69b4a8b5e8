package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisCache is a Redis implementation of shortener.FastCache.
// Entries are plain string keys that expire on their own. The client is
// owned by the caller.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed fast cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "url:",
	}
}

func (r *RedisCache) Get(ctx context.Context, code shortener.Code) (string, error) {
	url, err := r.client.Get(ctx, r.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrCacheMiss
		}

		return "", err
	}

	return url, nil
}

// SetWithTTL stores longURL for ttl. Zero means no expiry and a negative
// value keeps the old TTL in go-redis, so both are rejected.
func (r *RedisCache) SetWithTTL(ctx context.Context, code shortener.Code, longURL string, ttl time.Duration) error {
	if ttl <= 0 {
		return shortener.ErrInvalidTTL
	}

	return r.client.Set(ctx, r.key(code), longURL, ttl).Err()
}

// Evict removes a cached entry. Missing keys are not an error.
func (r *RedisCache) Evict(ctx context.Context, code shortener.Code) error {
	return r.client.Del(ctx, r.key(code)).Err()
}

// Ping checks Redis connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) key(code shortener.Code) string {
	return r.prefix + string(code)
}

// Compile-time check.
var _ shortener.FastCache = (*RedisCache)(nil)
