package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

const createTablesFile = "0001_create_tables.up.sql"

// Tables lists the CRM tables in dependency order.
var Tables = []string{"users", "companies", "calls", "appointments"}

type additiveColumn struct {
	table, column string
	typ           func(Dialect) string
}

// Columns added after the first release. They are ensured on every boot.
var additiveColumns = []additiveColumn{
	{"companies", "google_rating", func(d Dialect) string { return d.FloatType() }},
	{"companies", "google_reviews_count", func(Dialect) string { return "INTEGER" }},
}

// Bootstrap creates missing tables then adds missing additive columns.
// Every statement is idempotent so it runs on each boot.
func Bootstrap(ctx context.Context, d *DB) error {
	script, err := fs.ReadFile(migrationsFS, "migrations/"+d.Dialect.Name()+"/"+createTablesFile)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	for _, stmt := range splitStatements(string(script)) {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	for _, c := range additiveColumns {
		if err := d.Dialect.EnsureColumn(ctx, d, c.table, c.column, c.typ(d.Dialect)); err != nil {
			return fmt.Errorf("ensure column %s.%s: %w", c.table, c.column, err)
		}
	}
	return d.checkTables()
}

// Migrate applies the versioned migrations with golang-migrate. It is the
// alternative to Bootstrap when MIGRATIONS is enabled.
func Migrate(d *DB) error {
	if d.dsn == "" {
		return errors.New("migrate: handle was not built by Open")
	}
	src, err := iofs.New(migrationsFS, "migrations/"+d.Dialect.Name())
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	// golang-migrate closes the connection it is given, so it gets its own pool
	conn, err := sql.Open(d.Dialect.DriverName(), d.migrationDSN())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer conn.Close()
	drv, err := d.Dialect.MigrationDriver(conn)
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, d.Dialect.Name(), drv)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	v, dirty, _ := m.Version()
	log.Printf("[DB] schema at version %d (dirty=%v)", v, dirty)
	return d.checkTables()
}

func (d *DB) migrationDSN() string {
	if d.Dialect.Name() == "postgres" {
		return NormalizeDSN(d.dsn)
	}
	return d.dsn
}

func (d *DB) checkTables() error {
	for _, table := range Tables {
		if !d.Gorm.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// splitStatements splits a migration script on ";" line ends.
func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
