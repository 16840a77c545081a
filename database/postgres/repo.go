// Package postgres implements the post and user repos on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/postbox"
)

const uniqueViolation = "23505"

const postColumns = "id, title, content, image_key, created_at, updated_at"

type postRepo struct {
	pool      *pgxpool.Pool
	tableName string
}

func scanPost(row pgx.Row) (postbox.Post, error) {
	var p postbox.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageKey, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postRepo) Create(ctx context.Context, in postbox.PostInput) (postbox.Post, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, content, image_key)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, pgx.Identifier{r.tableName}.Sanitize(), postColumns)

	p, err := scanPost(r.pool.QueryRow(ctx, query, in.Title, in.Content, in.ImageKey))
	if err != nil {
		return postbox.Post{}, fmt.Errorf("create: %w", err)
	}

	return p, nil
}

func (r *postRepo) Get(ctx context.Context, id int64) (postbox.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, postColumns, pgx.Identifier{r.tableName}.Sanitize())

	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return postbox.Post{}, postbox.ErrNotFound
		}
		return postbox.Post{}, fmt.Errorf("get: %w", err)
	}

	return p, nil
}

func (r *postRepo) List(ctx context.Context, q postbox.ListQuery) ([]postbox.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, postColumns, pgx.Identifier{r.tableName}.Sanitize())

	rows, err := r.pool.Query(ctx, query, q.Limit, q.Skip)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	posts := make([]postbox.Post, 0, min(q.Limit, 100))
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	return posts, nil
}

func (r *postRepo) Update(ctx context.Context, id int64, patch postbox.PostPatch) (postbox.Post, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = COALESCE($2, title),
			content = COALESCE($3, content),
			image_key = COALESCE($4, image_key),
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, pgx.Identifier{r.tableName}.Sanitize(), postColumns)

	p, err := scanPost(r.pool.QueryRow(ctx, query, id, patch.Title, patch.Content, patch.ImageKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return postbox.Post{}, fmt.Errorf("update: %w", postbox.ErrNotFound)
		}
		return postbox.Post{}, fmt.Errorf("update: %w", err)
	}

	return p, nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pgx.Identifier{r.tableName}.Sanitize())

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", postbox.ErrNotFound)
	}

	return nil
}

type userRepo struct {
	pool      *pgxpool.Pool
	tableName string
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (postbox.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, password_hash, created_at
		FROM %s
		WHERE email = $1
	`, pgx.Identifier{r.tableName}.Sanitize())

	var u postbox.User
	err := r.pool.QueryRow(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return postbox.User{}, postbox.ErrNotFound
		}
		return postbox.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (r *userRepo) Create(ctx context.Context, email, passwordHash string) (postbox.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`, pgx.Identifier{r.tableName}.Sanitize())

	var u postbox.User
	err := r.pool.QueryRow(ctx, query, email, passwordHash).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return postbox.User{}, fmt.Errorf("create user %s: %w", email, postbox.ErrConflict)
		}
		return postbox.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *userRepo) Delete(ctx context.Context, email string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE email = $1`, pgx.Identifier{r.tableName}.Sanitize())

	result, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete user: %w", postbox.ErrNotFound)
	}

	return nil
}
