package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/postbox/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and validate the schema",
	Long: `Create the post and user tables if they do not exist, then check
that existing tables match the expected columns. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		db, err := openDatabase(cmd.Context(), cfg.Database, true)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		slog.Info("schema is up to date",
			"type", cfg.Database.Type,
			"posts", cfg.Database.Tables.Posts,
			"users", cfg.Database.Tables.Users,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
