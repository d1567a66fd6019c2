package main

import (
	"fmt"

	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagConfig string

	// cfg is loaded once by PersistentPreRunE for every subcommand.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "crmctl",
	Short:        "Closer CRM API server and maintenance commands",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load environment variables from .env file
		_ = godotenv.Load()
		if cmd.Annotations["config"] == "skip" {
			return nil
		}
		c, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "optional YAML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(copyDataCmd)
	rootCmd.AddCommand(smokeCmd)
}

// openDB connects with the loaded configuration.
func openDB() (*db.DB, error) {
	return db.Open(cfg.Database)
}
