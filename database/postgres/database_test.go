package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/sagarc03/postbox/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	db, err := postgres.Connect(ctx, getDSN(pool), randomTables(t))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NoError(t, db.Ping(ctx), "ping should succeed after connect")
}

func TestDatabase_Migrate(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	t.Run("success - creates tables and validates", func(t *testing.T) {
		tables := randomTables(t)
		db, err := postgres.Connect(ctx, getDSN(pool), tables)
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = postgres.DropTables(ctx, pool, tables)
		}()

		require.NoError(t, db.Migrate(ctx))
		assert.NoError(t, db.Validate(ctx))
	})

	t.Run("success - idempotent", func(t *testing.T) {
		tables := randomTables(t)
		db, err := postgres.Connect(ctx, getDSN(pool), tables)
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = postgres.DropTables(ctx, pool, tables)
		}()

		require.NoError(t, db.Migrate(ctx))
		assert.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	})

	t.Run("success - unique email index", func(t *testing.T) {
		tables := randomTables(t)
		db, err := postgres.Connect(ctx, getDSN(pool), tables)
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = postgres.DropTables(ctx, pool, tables)
		}()
		require.NoError(t, db.Migrate(ctx))

		var exists bool
		err = pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = $1 AND indexname = $2)`,
			tables.Users, "ux_"+tables.Users+"_email",
		).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestDatabase_Validate(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	t.Run("error - tables missing", func(t *testing.T) {
		db, err := postgres.Connect(ctx, getDSN(pool), randomTables(t))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		err = db.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("error - column missing", func(t *testing.T) {
		tables := randomTables(t)
		db, err := postgres.Connect(ctx, getDSN(pool), tables)
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = postgres.DropTables(ctx, pool, tables)
		}()
		require.NoError(t, db.Migrate(ctx))

		_, err = pool.Exec(ctx, "ALTER TABLE "+pgx.Identifier{tables.Posts}.Sanitize()+" DROP COLUMN image_key")
		require.NoError(t, err)

		err = db.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing columns: image_key")
	})

	t.Run("error - nullability mismatch", func(t *testing.T) {
		tables := randomTables(t)
		db, err := postgres.Connect(ctx, getDSN(pool), tables)
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
			_ = postgres.DropTables(ctx, pool, tables)
		}()
		require.NoError(t, db.Migrate(ctx))

		_, err = pool.Exec(ctx, "ALTER TABLE "+pgx.Identifier{tables.Posts}.Sanitize()+" ALTER COLUMN content DROP NOT NULL")
		require.NoError(t, err)

		err = db.Validate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "content: expected nullable=false")
	})
}

func TestDatabase_Close(t *testing.T) {
	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	db, err := postgres.Connect(ctx, getDSN(pool), randomTables(t))
	require.NoError(t, err)

	assert.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx), "ping should fail after close")
}
