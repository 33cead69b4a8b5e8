package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/store"
)

// Version is reported by /health and the OpenAPI document.
const Version = "1.0.0"

// HealthPackage provides the health handler. Backends that are not configured
// are reported as disabled.
func HealthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)

		var postgres, redis health.Checker

		if opts.StoreBackend == BackendPostgres {
			pg, err := do.Invoke[*store.PostgresStore](i)
			if err != nil {
				return nil, err
			}

			postgres = pg
		}

		if opts.usesRedis() {
			client, err := do.Invoke[*RedisClient](i)
			if err != nil {
				return nil, err
			}

			redis = store.NewRedisCache(client.Client)
		}

		return health.NewHandler(Version, postgres, redis, opts.StoreTimeout), nil
	})
}
