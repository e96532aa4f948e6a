package main

import (
	"fmt"

	"github.com/Freeeeeet/officehours/internal/app"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.UsesPostgres() {
				return fmt.Errorf("DB_DSN is required for migrations")
			}

			pool, err := app.OpenPool(cmd.Context(), cfg.GetDBDSN())
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, logger)
			if err != nil {
				return err
			}
			defer migrator.Close()

			return migrator.Run(cmd.Context())
		},
	}
}
