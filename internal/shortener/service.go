package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Config holds the timeouts and cache lifetime used by Service.
type Config struct {
	CacheTTL     time.Duration
	StoreTimeout time.Duration
	CacheTimeout time.Duration
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:     time.Hour,
		StoreTimeout: 3 * time.Second,
		CacheTimeout: 200 * time.Millisecond,
	}
}

// Service resolves short codes with a cache-aside read path and owns the
// create path's conflict policy. The cache may be nil.
type Service struct {
	store  MappingStore
	cache  FastCache
	config Config
	logger *zap.Logger
}

// NewService creates a new resolution service.
func NewService(store MappingStore, cache FastCache, config Config, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Create maps longURL to its derived code. Repeating the call for the same URL
// returns the same code with inserted false. The cache is not written.
func (s *Service) Create(ctx context.Context, longURL string) (*ShortURL, bool, error) {
	if !ValidLongURL(longURL) {
		return nil, false, invalidInput("long url must be an absolute url with scheme and host")
	}

	code := Generate(longURL)

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	inserted, err := s.store.Create(ctx, code, longURL)
	if err != nil {
		return nil, false, storeError("create", err)
	}

	if !inserted {
		s.logger.Debug("mapping already exists", zap.String("code", string(code)))
	}

	return &ShortURL{Code: code, LongURL: longURL}, inserted, nil
}

// Resolve returns the long URL for code. The cache is consulted first; a miss
// or a cache failure falls through to the store, and a store hit is written
// back to the cache on a best-effort basis.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	if !ValidCode(string(code)) {
		return "", invalidInput("malformed short code")
	}

	if longURL, ok := s.cached(ctx, code); ok {
		return longURL, nil
	}

	shortURL, err := s.find(ctx, code)
	if err != nil {
		return "", err
	}

	s.backfill(ctx, code, shortURL.LongURL)

	return shortURL.LongURL, nil
}

// Detail returns the stored mapping for code without touching the cache.
func (s *Service) Detail(ctx context.Context, code Code) (*ShortURL, error) {
	if !ValidCode(string(code)) {
		return nil, invalidInput("malformed short code")
	}

	return s.find(ctx, code)
}

// Delete removes the mapping for code. A cached entry is left to expire.
func (s *Service) Delete(ctx context.Context, code Code) error {
	if !ValidCode(string(code)) {
		return invalidInput("malformed short code")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, code); err != nil {
		return storeError("delete", err)
	}

	return nil
}

// List returns all mappings, newest first.
func (s *Service) List(ctx context.Context) ([]ShortURL, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	urls, err := s.store.List(ctx)
	if err != nil {
		return nil, storeError("list", err)
	}

	return urls, nil
}

func (s *Service) find(ctx context.Context, code Code) (*ShortURL, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()

	shortURL, err := s.store.Find(ctx, code)
	if err != nil {
		return nil, storeError("find", err)
	}

	return shortURL, nil
}

func (s *Service) cached(ctx context.Context, code Code) (string, bool) {
	if s.cache == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.CacheTimeout)
	defer cancel()

	longURL, err := s.cache.Get(ctx, code)
	if err == nil {
		s.logger.Debug("cache hit", zap.String("code", string(code)))

		return longURL, true
	}

	if errors.Is(err, ErrCacheMiss) {
		s.logger.Debug("cache miss", zap.String("code", string(code)))
	} else {
		s.logger.Warn("cache lookup failed, falling back to store",
			zap.String("code", string(code)),
			zap.Error(errors.Join(ErrCacheUnavailable, err)),
		)
	}

	return "", false
}

func (s *Service) backfill(ctx context.Context, code Code, longURL string) {
	if s.cache == nil {
		return
	}

	// Detached from the caller so a client disconnect does not drop the write.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.CacheTimeout)
	defer cancel()

	if err := s.cache.SetWithTTL(ctx, code, longURL, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to populate cache",
			zap.String("code", string(code)),
			zap.Error(errors.Join(ErrCacheUnavailable, err)),
		)
	}
}
