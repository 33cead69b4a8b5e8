package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/migrations"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// PostgresPackage provides the PostgreSQL mapping store. The pool is closed by
// injector.Shutdown through the store.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.PostgresStore, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Migrate {
			if err := MigrateUp(opts.DatabaseURL, logger); err != nil {
				return nil, err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		logger.Info("connected to postgres")

		return store.NewPostgresStore(pool), nil
	})
}

// MigrateUp applies every pending migration to databaseURL.
func MigrateUp(databaseURL string, logger *zap.Logger) error {
	return withMigrator(databaseURL, logger, (*migrations.Migrator).Up)
}

// MigrateDown rolls back the latest migration.
func MigrateDown(databaseURL string, logger *zap.Logger) error {
	return withMigrator(databaseURL, logger, (*migrations.Migrator).Down)
}

// MigrationVersion logs the current schema version.
func MigrationVersion(databaseURL string, logger *zap.Logger) error {
	return withMigrator(databaseURL, logger, func(m *migrations.Migrator) error {
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		logger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

		return nil
	})
}

func withMigrator(databaseURL string, logger *zap.Logger, run func(*migrations.Migrator) error) error {
	m, err := migrations.New(databaseURL, logger)
	if err != nil {
		return err
	}

	runErr := run(m)

	if err := m.Close(); err != nil {
		logger.Warn("failed to close migrator", zap.Error(err))
	}

	return runErr
}
