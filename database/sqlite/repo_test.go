package sqlite_test

import (
	"context"
	"testing"

	"github.com/sagarc03/postbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepo_CreateGet(t *testing.T) {
	posts, _ := setupTestDB(t)
	ctx := context.Background()

	t.Run("success - round trip without image", func(t *testing.T) {
		created, err := posts.Create(ctx, postbox.PostInput{Title: "T", Content: "C"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Nil(t, created.ImageKey)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		got, err := posts.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "T", got.Title)
		assert.Equal(t, "C", got.Content)
		assert.Nil(t, got.ImageKey)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("success - image key stored", func(t *testing.T) {
		created, err := posts.Create(ctx, postbox.PostInput{Title: "T", Content: "C", ImageKey: strPtr("uploads/a.png")})
		require.NoError(t, err)
		require.NotNil(t, created.ImageKey)
		assert.Equal(t, "uploads/a.png", *created.ImageKey)
	})

	t.Run("error - not found", func(t *testing.T) {
		_, err := posts.Get(ctx, 999999)
		assert.ErrorIs(t, err, postbox.ErrNotFound)
	})
}

func TestPostRepo_List(t *testing.T) {
	posts, _ := setupTestDB(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"one", "two", "three"} {
		p, err := posts.Create(ctx, postbox.PostInput{Title: title, Content: "c"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	t.Run("success - newest first", func(t *testing.T) {
		got, err := posts.List(ctx, postbox.ListQuery{Limit: 10})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, ids[2], got[0].ID)
		assert.Equal(t, ids[0], got[2].ID)
	})

	t.Run("success - skip and limit", func(t *testing.T) {
		got, err := posts.List(ctx, postbox.ListQuery{Skip: 1, Limit: 1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ids[1], got[0].ID)
	})

	t.Run("success - skip past end is empty", func(t *testing.T) {
		got, err := posts.List(ctx, postbox.ListQuery{Skip: 10, Limit: 10})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestPostRepo_Update(t *testing.T) {
	posts, _ := setupTestDB(t)
	ctx := context.Background()

	created, err := posts.Create(ctx, postbox.PostInput{Title: "T", Content: "C", ImageKey: strPtr("uploads/a.png")})
	require.NoError(t, err)

	t.Run("success - only title changes", func(t *testing.T) {
		updated, err := posts.Update(ctx, created.ID, postbox.PostPatch{Title: strPtr("X")})
		require.NoError(t, err)
		assert.Equal(t, "X", updated.Title)
		assert.Equal(t, "C", updated.Content)
		require.NotNil(t, updated.ImageKey)
		assert.Equal(t, "uploads/a.png", *updated.ImageKey)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	})

	t.Run("success - content and image", func(t *testing.T) {
		updated, err := posts.Update(ctx, created.ID, postbox.PostPatch{Content: strPtr("D"), ImageKey: strPtr("uploads/b.png")})
		require.NoError(t, err)
		assert.Equal(t, "X", updated.Title)
		assert.Equal(t, "D", updated.Content)
		assert.Equal(t, "uploads/b.png", *updated.ImageKey)
	})

	t.Run("error - not found", func(t *testing.T) {
		_, err := posts.Update(ctx, 999999, postbox.PostPatch{Title: strPtr("X")})
		assert.ErrorIs(t, err, postbox.ErrNotFound)
	})
}

func TestPostRepo_Delete(t *testing.T) {
	posts, _ := setupTestDB(t)
	ctx := context.Background()

	created, err := posts.Create(ctx, postbox.PostInput{Title: "T", Content: "C"})
	require.NoError(t, err)

	require.NoError(t, posts.Delete(ctx, created.ID))

	_, err = posts.Get(ctx, created.ID)
	assert.ErrorIs(t, err, postbox.ErrNotFound)

	err = posts.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, postbox.ErrNotFound, "second delete should fail")
}

func TestUserRepo(t *testing.T) {
	_, users := setupTestDB(t)
	ctx := context.Background()

	t.Run("success - create and get", func(t *testing.T) {
		created, err := users.Create(ctx, "ana@example.com", "hash")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		got, err := users.GetByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("error - duplicate email", func(t *testing.T) {
		_, err := users.Create(ctx, "ana@example.com", "other")
		assert.ErrorIs(t, err, postbox.ErrConflict)
	})

	t.Run("error - email is case sensitive", func(t *testing.T) {
		_, err := users.GetByEmail(ctx, "ANA@example.com")
		assert.ErrorIs(t, err, postbox.ErrNotFound)
	})

	t.Run("success - delete", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, "ana@example.com"))
		assert.ErrorIs(t, users.Delete(ctx, "ana@example.com"), postbox.ErrNotFound)
	})
}
