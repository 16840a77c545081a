package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/postbox"

	_ "modernc.org/sqlite" // SQLite driver
)

// database provides SQLite database operations.
type database struct {
	db     *sql.DB
	tables postbox.Tables
}

// Connect opens a SQLite database. Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables postbox.Tables) (*database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite allows one writer, and each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	return &database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate creates the post and user tables if they are missing.
func (d *database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the database schema matches expected structure.
func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

func (d *database) PostRepo() postbox.PostRepo {
	return &postRepo{db: d.db, tableName: d.tables.Posts}
}

func (d *database) UserRepo() postbox.UserRepo {
	return &userRepo{db: d.db, tableName: d.tables.Users}
}

// Close closes the database connection.
func (d *database) Close() error {
	return d.db.Close()
}
