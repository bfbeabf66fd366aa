package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	config "taskboard.com/taskboard/internal/configs"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db, err := config.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}

		slog.Info("schema up to date", "driver", cfg.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
