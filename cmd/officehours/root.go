package main

import (
	"github.com/Freeeeeet/officehours/internal/app"
	"github.com/Freeeeeet/officehours/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "officehours",
		Short:         "Office hours reservation engine: HTTP API, Telegram bot and notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newInstructorCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setup загружает конфиг и создаёт логгер
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg.Environment), nil
}
