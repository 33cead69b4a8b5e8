//go:build integration

package migrations_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/migrations"
	"github.com/serroba/shortlink/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigratorIntegration(t *testing.T) {
	ctx := context.Background()
	dsn := testutils.PostgresURL(t)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	tableExists := func(t *testing.T) bool {
		t.Helper()

		var exists bool
		err := pool.QueryRow(ctx, `SELECT to_regclass('public.urls') IS NOT NULL`).Scan(&exists)
		require.NoError(t, err)

		return exists
	}

	migrator, err := migrations.New(dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = migrator.Close() })

	t.Run("up creates the schema", func(t *testing.T) {
		require.NoError(t, migrator.Up())
		assert.True(t, tableExists(t))

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
		assert.False(t, dirty)
	})

	t.Run("up is a no-op when current", func(t *testing.T) {
		require.NoError(t, migrator.Up())
		assert.True(t, tableExists(t))
	})

	t.Run("dirty first migration is run again", func(t *testing.T) {
		// A failed 000001 rolls back its statements but leaves the version dirty.
		_, err := pool.Exec(ctx, `DROP TABLE urls`)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, `UPDATE schema_migrations SET dirty = true`)
		require.NoError(t, err)

		require.NoError(t, migrator.Up())
		assert.True(t, tableExists(t))

		var indexed bool
		err = pool.QueryRow(ctx, `SELECT to_regclass('public.idx_urls_short_code') IS NOT NULL`).Scan(&indexed)
		require.NoError(t, err)
		assert.True(t, indexed)

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
		assert.False(t, dirty)
	})

	t.Run("down drops the schema", func(t *testing.T) {
		require.NoError(t, migrator.Down())
		assert.False(t, tableExists(t))
	})
}
