package main

import (
	"fmt"

	"github.com/Freeeeeet/officehours/internal/app"
	"github.com/spf13/cobra"
)

func newInstructorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instructor",
		Short: "Manage instructors",
	}

	var displayName string
	add := &cobra.Command{
		Use:   "add <handle>",
		Short: "Register an instructor or update the display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !cfg.UsesPostgres() {
				return fmt.Errorf("DB_DSN is required: the in-memory store does not outlive this command")
			}

			a, err := app.New(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			defer a.Close()

			instructor, err := a.Instructors.Register(cmd.Context(), args[0], displayName)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", instructor.ID, instructor.DisplayName)
			return nil
		},
	}
	add.Flags().StringVar(&displayName, "name", "", "display name")

	cmd.AddCommand(add)
	return cmd
}
