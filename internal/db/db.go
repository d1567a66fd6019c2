// Package db owns the database handle: backend selection, raw queries,
// schema bootstrap, migrations and seeding.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-crm/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the process-wide database handle. It is built once at startup and
// passed to the layers that need it.
type DB struct {
	Gorm    *gorm.DB
	Dialect Dialect
	sql     *sql.DB
	dsn     string
}

// Result reports the outcome of Exec. LastInsertID is only set by drivers that
// support it (SQLite).
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Open connects to the backend selected by cfg.Driver, retrying while the
// server comes up.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, errors.New("database DSN is empty, check DATABASE_URL / SQLITE_PATH")
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	var g *gorm.DB
	attempts := 1
	if dialect.Name() == "postgres" {
		attempts = 10
	}
	for i := 0; i < attempts; i++ {
		g, err = gorm.Open(dialect.Dialector(dsn), gcfg)
		if err == nil {
			break
		}
		log.Printf("[DB] connection attempt %d/%d failed: %v", i+1, attempts, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	d, err := New(g, dialect)
	if err != nil {
		return nil, err
	}
	d.dsn = dsn
	log.Printf("[DB] connected (%s) %s", dialect.Name(), MaskDSN(dsn))
	return d, nil
}

// New wraps an already opened gorm handle.
func New(g *gorm.DB, dialect Dialect) (*DB, error) {
	sqlDB, err := g.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	if dialect.Name() == "sqlite" {
		// one writer at a time, avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}
	return &DB{Gorm: g, Dialect: dialect, sql: sqlDB}, nil
}

// Query runs a read statement written with ? placeholders.
func (d *DB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := d.sql.QueryContext(ctx, d.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Exec runs a write statement written with ? placeholders.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := d.sql.ExecContext(ctx, d.Dialect.Rebind(query), args...)
	if err != nil {
		return Result{}, fmt.Errorf("exec: %w", err)
	}
	var out Result
	out.RowsAffected, _ = res.RowsAffected()
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// Close releases the pool.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Row is one result row keyed by column name.
type Row map[string]any

// Get looks key up as given, then lower-cased (PostgreSQL folds unquoted aliases).
func (r Row) Get(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	v, ok := r[strings.ToLower(key)]
	return v, ok
}

// Int returns key as an int64, 0 when absent or NULL.
func (r Row) Int(key string) int64 {
	v, _ := r.Get(key)
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

// Float returns key as a float64, 0 when absent or NULL.
func (r Row) Float(key string) float64 {
	v, _ := r.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

// String returns key as a string, "" when absent or NULL.
func (r Row) String(key string) string {
	v, _ := r.Get(key)
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.UTC().Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
