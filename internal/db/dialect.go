package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect isolates everything that differs between the SQLite and PostgreSQL backends.
// Callers always write "?" placeholders; Rebind adapts them.
type Dialect interface {
	Name() string
	// DriverName is the database/sql driver registered for this backend.
	DriverName() string
	Dialector(dsn string) gorm.Dialector
	Rebind(query string) string
	// MonthBucket returns an expression formatting a timestamp column as YYYY-MM.
	MonthBucket(column string) string
	FloatType() string
	// EnsureColumn adds table.column when it is missing.
	EnsureColumn(ctx context.Context, db *DB, table, column, typ string) error
	MigrationDriver(conn *sql.DB) (database.Driver, error)
	// ResetSequences realigns auto-increment counters after rows were copied with explicit ids.
	ResetSequences(ctx context.Context, db *DB, tables ...string) error
}

// DialectFor returns the dialect registered for driver.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	case "postgres", "postgresql", "pgx":
		return postgresDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                        { return "sqlite" }
func (sqliteDialect) DriverName() string                  { return "sqlite3" }
func (sqliteDialect) Dialector(dsn string) gorm.Dialector { return sqlite.Open(dsn) }
func (sqliteDialect) Rebind(query string) string          { return query }
func (sqliteDialect) FloatType() string                   { return "REAL" }

func (sqliteDialect) MonthBucket(column string) string {
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", column)
}

func (sqliteDialect) EnsureColumn(ctx context.Context, db *DB, table, column, typ string) error {
	rows, err := db.Query(ctx, fmt.Sprintf("SELECT COUNT(*) AS n FROM pragma_table_info('%s') WHERE name = ?", table), column)
	if err != nil {
		return fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	if len(rows) > 0 && rows[0].Int("n") > 0 {
		return nil
	}
	_, err = db.Exec(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typ))
	return err
}

func (sqliteDialect) MigrationDriver(conn *sql.DB) (database.Driver, error) {
	return migratesqlite.WithInstance(conn, &migratesqlite.Config{})
}

func (sqliteDialect) ResetSequences(context.Context, *DB, ...string) error { return nil }

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }

func (postgresDialect) Dialector(dsn string) gorm.Dialector {
	return postgres.Open(NormalizeDSN(dsn))
}

func (postgresDialect) FloatType() string { return "DOUBLE PRECISION" }

func (postgresDialect) MonthBucket(column string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
}

// Rebind rewrites ? placeholders as $1..$n, leaving quoted text untouched.
func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	idx := 1
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == '?':
			fmt.Fprintf(&b, "$%d", idx)
			idx++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (postgresDialect) EnsureColumn(ctx context.Context, db *DB, table, column, typ string) error {
	_, err := db.Exec(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", table, column, typ))
	return err
}

func (postgresDialect) MigrationDriver(conn *sql.DB) (database.Driver, error) {
	return migratepg.WithInstance(conn, &migratepg.Config{})
}

func (postgresDialect) ResetSequences(ctx context.Context, db *DB, tables ...string) error {
	for _, t := range tables {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", t, t)
		if _, err := db.Query(ctx, q); err != nil {
			return fmt.Errorf("reset sequence %s: %w", t, err)
		}
	}
	return nil
}
