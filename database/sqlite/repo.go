// Package sqlite implements the post and user repos on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/postbox"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const postColumns = "id, title, content, image_key, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(field, v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", field, err)
	}
	return t, nil
}

func scanPost(row rowScanner) (postbox.Post, error) {
	var p postbox.Post
	var imageKey sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&p.ID, &p.Title, &p.Content, &imageKey, &createdAt, &updatedAt); err != nil {
		return postbox.Post{}, err
	}

	if imageKey.Valid {
		p.ImageKey = &imageKey.String
	}

	var err error
	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return postbox.Post{}, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return postbox.Post{}, err
	}

	return p, nil
}

type postRepo struct {
	db        *sql.DB
	tableName string
}

func (r *postRepo) Create(ctx context.Context, in postbox.PostInput) (postbox.Post, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (title, content, image_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING %s`, quoteIdentifier(r.tableName), postColumns)

	ts := now()
	p, err := scanPost(r.db.QueryRowContext(ctx, query, in.Title, in.Content, in.ImageKey, ts, ts))
	if err != nil {
		return postbox.Post{}, fmt.Errorf("create: %w", err)
	}

	return p, nil
}

func (r *postRepo) Get(ctx context.Context, id int64) (postbox.Post, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE id = ?`, postColumns, quoteIdentifier(r.tableName))

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postbox.Post{}, postbox.ErrNotFound
		}
		return postbox.Post{}, fmt.Errorf("get: %w", err)
	}

	return p, nil
}

func (r *postRepo) List(ctx context.Context, q postbox.ListQuery) ([]postbox.Post, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, postColumns, quoteIdentifier(r.tableName))

	rows, err := r.db.QueryContext(ctx, query, q.Limit, q.Skip)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET title = COALESCE(?, title),
			content = COALESCE(?, content),
			image_key = COALESCE(?, image_key),
			updated_at = ?
		WHERE id = ?
		RETURNING %s`, quoteIdentifier(r.tableName), postColumns)

	p, err := scanPost(r.db.QueryRowContext(ctx, query, patch.Title, patch.Content, patch.ImageKey, now(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postbox.Post{}, fmt.Errorf("update: %w", postbox.ErrNotFound)
		}
		return postbox.Post{}, fmt.Errorf("update: %w", err)
	}

	return p, nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE id = ?`, quoteIdentifier(r.tableName))

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete: %w", postbox.ErrNotFound)
	}

	return nil
}

type userRepo struct {
	db        *sql.DB
	tableName string
}

func scanUser(row rowScanner) (postbox.User, error) {
	var u postbox.User
	var createdAt string

	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return postbox.User{}, err
	}

	var err error
	if u.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return postbox.User{}, err
	}

	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (postbox.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, email, password_hash, created_at FROM %s WHERE email = ?`, quoteIdentifier(r.tableName))

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return postbox.User{}, postbox.ErrNotFound
		}
		return postbox.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (r *userRepo) Create(ctx context.Context, email, passwordHash string) (postbox.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (email, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id, email, password_hash, created_at`, quoteIdentifier(r.tableName))

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email, passwordHash, now()))
	if err != nil {
		var sqlErr *sqlitedrv.Error
		if errors.As(err, &sqlErr) && sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return postbox.User{}, fmt.Errorf("create user %s: %w", email, postbox.ErrConflict)
		}
		return postbox.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *userRepo) Delete(ctx context.Context, email string) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE email = ?`, quoteIdentifier(r.tableName))

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: rows affected: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete user: %w", postbox.ErrNotFound)
	}

	return nil
}
