package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the versioned SQL migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := db.Migrate(d); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Println("Migrations completed successfully")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema if needed and insert the default admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDB()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := db.Bootstrap(cmd.Context(), d); err != nil {
			return err
		}
		seeded, err := db.Seed(cmd.Context(), d, db.SeedOptions{Demo: cfg.App.SeedDemo})
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		if !seeded {
			log.Println("Users already present, nothing seeded")
			return nil
		}
		log.Printf("Seeding completed, admin %s", db.DefaultAdminEmail)
		return nil
	},
}

var (
	flagFromSQLite string
	flagToPostgres string
)

var copyDataCmd = &cobra.Command{
	Use:         "copy-data",
	Short:       "Copy every row of a SQLite database into PostgreSQL",
	Annotations: map[string]string{"config": "skip"},
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := db.Open(config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: flagFromSQLite})
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer src.Close()
		dst, err := db.Open(config.DatabaseConfig{Driver: config.DriverPostgres, URL: flagToPostgres})
		if err != nil {
			return fmt.Errorf("open destination: %w", err)
		}
		defer dst.Close()

		if err := db.Bootstrap(cmd.Context(), dst); err != nil {
			return fmt.Errorf("prepare destination: %w", err)
		}
		counts, err := db.CopyData(cmd.Context(), src, dst)
		if err != nil {
			return err
		}
		tables := make([]string, 0, len(counts))
		for t := range counts {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for _, t := range tables {
			fmt.Fprintf(cmd.OutOrStdout(), "%-13s %d rows\n", t, counts[t])
		}
		return nil
	},
}

func init() {
	copyDataCmd.Flags().StringVar(&flagFromSQLite, "from-sqlite", "crm.db", "source SQLite file")
	copyDataCmd.Flags().StringVar(&flagToPostgres, "to-postgres", "", "destination PostgreSQL DSN")
	_ = copyDataCmd.MarkFlagRequired("to-postgres")
}
