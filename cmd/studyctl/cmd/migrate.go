package cmd

import (
	"database/sql"
	"fmt"

	"github.com/templui/studyhall/internal/db"
	"github.com/templui/studyhall/internal/logger"

	"github.com/spf13/cobra"
)

func MigrateCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, load, db.RunMigrations)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, load, db.MigrateDown)
		},
	})

	return cmd
}

func migrate(cmd *cobra.Command, load Loader, step func(*sql.DB, string) error) error {
	cfg := load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := step(database.DB, cfg.DBDriver); err != nil {
		return err
	}

	version, err := db.MigrationVersion(database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
