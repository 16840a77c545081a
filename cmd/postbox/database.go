package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/postbox/database"
)

// openDatabase connects, pings, optionally migrates, and validates the schema.
// The caller owns the returned Database and must Close it.
func openDatabase(ctx context.Context, cfg database.Config, migrate bool) (database.Database, error) {
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err = db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if migrate {
		if err = db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		slog.Info("database migration complete")
	}

	if err = db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate database schema: %w", err)
	}

	slog.Debug("connected to database", "type", cfg.Type)
	return db, nil
}
