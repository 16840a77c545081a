package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestDatabase_MigrateValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = db.Validate(ctx)
	assert.Error(t, err, "validate should fail without tables")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	assert.NoError(t, db.Validate(ctx))
}

func TestValidateSchema_Mismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	defer func() { _ = raw.Close() }()

	tables := postbox.Tables{Posts: "posts", Users: "users"}
	require.NoError(t, sqlite.Migrate(ctx, raw, tables))

	_, err = raw.ExecContext(ctx, `DROP TABLE "posts"`)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `CREATE TABLE "posts" (id INTEGER NOT NULL PRIMARY KEY, title TEXT, content TEXT NOT NULL)`)
	require.NoError(t, err)

	err = sqlite.ValidateSchema(ctx, raw, tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "title: expected nullable=false")
}

func TestDropTables(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	defer func() { _ = raw.Close() }()

	tables := postbox.Tables{Posts: "p", Users: "u"}
	require.NoError(t, sqlite.Migrate(ctx, raw, tables))
	require.NoError(t, sqlite.DropTables(ctx, raw, tables))

	err = sqlite.ValidateSchema(ctx, raw, tables)
	assert.Error(t, err)
}

func TestDatabase_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err)

	assert.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx), "ping should fail after close")
}
