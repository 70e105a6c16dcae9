package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"ai-triage-be/internal/config"
	"ai-triage-be/pkg/database"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply triage database migrations",
	}

	rootCmd.AddCommand(
		migrationCmd("up", "Apply all pending migrations", database.Migrate),
		migrationCmd("down", "Roll back the latest migration", database.MigrateDown),
		migrationCmd("status", "Print migration status", database.MigrationStatus),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrationCmd(use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.Database.Connection == "" {
				log.Fatal("Error: DB_CONNECTION_STRING is not set")
			}

			gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
			if err != nil {
				return err
			}
			sqlDB, err := database.SQLDB(gormDB)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := run(cmd.Context(), sqlDB); err != nil {
				return err
			}
			log.Printf("migrate %s: done", use)
			return nil
		},
	}
}
