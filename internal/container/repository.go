package container

import (
	"time"

	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

const memoryCacheCleanup = time.Minute

// RepositoryPackage provides the mapping store, the redirect cache and the
// resolution service built on them. Backends are chosen by Options.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.MappingStore, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.StoreBackend == BackendMemory {
			return store.NewMemoryStore(), nil
		}

		return do.Invoke[*store.PostgresStore](i)
	})

	do.Provide(injector, func(i *do.Injector) (shortener.FastCache, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.CacheBackend {
		case BackendMemory:
			return store.NewMemoryCache(memoryCacheCleanup), nil
		case BackendNone:
			return nil, nil
		default:
			client, err := do.Invoke[*RedisClient](i)
			if err != nil {
				return nil, err
			}

			return store.NewRedisCache(client.Client), nil
		}
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		mappings, err := do.Invoke[shortener.MappingStore](i)
		if err != nil {
			return nil, err
		}

		cache, err := do.Invoke[shortener.FastCache](i)
		if err != nil {
			return nil, err
		}

		logger.Info("resolution service ready",
			zap.String("store", opts.StoreBackend),
			zap.String("cache", opts.CacheBackend),
		)

		return shortener.NewService(mappings, cache, serviceConfig(opts), logger.Named("shortener")), nil
	})
}

func serviceConfig(opts *Options) shortener.Config {
	cfg := shortener.DefaultConfig()

	if opts.CacheTTL > 0 {
		cfg.CacheTTL = opts.CacheTTL
	}

	if opts.StoreTimeout > 0 {
		cfg.StoreTimeout = opts.StoreTimeout
	}

	if opts.CacheTimeout > 0 {
		cfg.CacheTimeout = opts.CacheTimeout
	}

	return cfg
}
