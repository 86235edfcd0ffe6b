package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"onboarding-portal/internal/config"
	"onboarding-portal/internal/repository"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the onboarding portal database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		migrationCommand("up", "Apply all pending migrations", repository.Migrate),
		migrationCommand("down", "Roll back the most recent migration", repository.MigrateDown),
		migrationCommand("status", "Show the state of every migration", repository.MigrationStatus),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

type migrationFunc func(ctx context.Context, db *sql.DB) error

func migrationCommand(use, short string, fn migrationFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			config.NewLogger(cfg.LogLevel)

			db, err := config.NewPostgresDB(cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			return fn(cmd.Context(), db.DB)
		},
	}
}
