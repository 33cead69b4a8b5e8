package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryCache is an in-process implementation of shortener.FastCache.
type MemoryCache struct {
	entries *cache.Cache
}

// NewMemoryCache creates an in-process cache whose expired entries are purged
// every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (m *MemoryCache) Get(_ context.Context, code shortener.Code) (string, error) {
	v, ok := m.entries.Get(string(code))
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	url, _ := v.(string)

	return url, nil
}

// SetWithTTL stores longURL for ttl. A non-positive ttl is rejected because
// go-cache treats it as the no-expiration default.
func (m *MemoryCache) SetWithTTL(_ context.Context, code shortener.Code, longURL string, ttl time.Duration) error {
	if ttl <= 0 {
		return shortener.ErrInvalidTTL
	}

	m.entries.Set(string(code), longURL, ttl)

	return nil
}

// Evict removes a cached entry.
func (m *MemoryCache) Evict(_ context.Context, code shortener.Code) error {
	m.entries.Delete(string(code))

	return nil
}

// Compile-time check.
var _ shortener.FastCache = (*MemoryCache)(nil)
