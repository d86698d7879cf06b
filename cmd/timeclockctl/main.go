package main

import (
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/spf13/cobra"

	"timeclock/internal/config"
	"timeclock/internal/logger"
	"timeclock/internal/store"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "timeclockctl",
		Short: "Admin tool for the timeclock service",
		Long: `timeclockctl runs maintenance tasks against the timeclock database:
schema migration, first-admin seeding, hour summaries and report exports.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads the config and connects, migrating the schema first.
func openStore() (*config.Config, *store.Store, error) {
	cfg := config.Load(configFile)
	logger.Init(config.LogConfig{Level: "warn", Console: true})

	db, err := cfg.OpenGormDB()
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, store.New(db), nil
}
