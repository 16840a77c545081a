package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

func randomTables(t *testing.T) postbox.Tables {
	t.Helper()
	suffix := getRandomString(t)
	return postbox.Tables{
		Posts: "posts_" + suffix,
		Users: "users_" + suffix,
	}
}

// setupTestDB returns repos over a migrated in-memory database.
func setupTestDB(t *testing.T) (postbox.PostRepo, postbox.UserRepo) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", randomTables(t))
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	return db.PostRepo(), db.UserRepo()
}

func strPtr(s string) *string {
	return &s
}
