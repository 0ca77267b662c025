package main

import (
	"github.com/SscSPs/campus_coin_ledger/internal/platform/config"
	"github.com/SscSPs/campus_coin_ledger/pkg/database"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)
		_, err = database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		return err
	},
}
