package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/postbox"
	"github.com/sagarc03/postbox/database/postgres"
	"github.com/sagarc03/postbox/database/sqlite"
)

// Config holds the configuration for connecting to a storage backend.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// Tables holds the post and user table names
	Tables postbox.Tables `mapstructure:"tables"`
	// AutoMigrate creates missing tables when the server starts
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Database is an open backend that can migrate, validate and hand out repos.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	PostRepo() postbox.PostRepo
	UserRepo() postbox.UserRepo
	Close() error
}

// Connect opens the configured backend. It does not migrate or validate;
// callers decide when to do that.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
