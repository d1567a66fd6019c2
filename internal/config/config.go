// Package config provides application configuration loaded from the environment
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	devJWTSecret = "closer-crm-dev-secret"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// DatabaseConfig selects the backend and how to reach it.
type DatabaseConfig struct {
	Driver     string
	URL        string // PostgreSQL, URL or key=value form
	SQLitePath string
	Debug      bool
}

// AuthConfig holds token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env        string
	Migrations bool
	SeedDemo   bool
}

// Production reports whether APP_ENV is "production".
func (a AppConfig) Production() bool { return strings.EqualFold(a.Env, "production") }

// DSN returns the connection string for the selected driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return d.URL
	}
	return SQLiteDSN(d.SQLitePath)
}

// SQLiteDSN builds a file DSN with foreign keys enabled.
func SQLiteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		if strings.Contains(path, "_foreign_keys") {
			return path
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + "_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on", path)
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "3001")
	v.SetDefault("app_env", "development")
	v.SetDefault("db_driver", "")
	v.SetDefault("database_url", "")
	v.SetDefault("sqlite_path", "crm.db")
	v.SetDefault("db_debug", false)
	v.SetDefault("migrations", false)
	v.SetDefault("seed_demo", true)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("cors_origins", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("server_read_timeout", "15s")
	v.SetDefault("server_write_timeout", "15s")
	v.SetDefault("server_idle_timeout", "60s")
}

// Load reads configuration from environment variables, overlaid on the YAML
// file at path when path is not empty. Environment always wins.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("port"),
			ReadTimeout:  v.GetDuration("server_read_timeout"),
			WriteTimeout: v.GetDuration("server_write_timeout"),
			IdleTimeout:  v.GetDuration("server_idle_timeout"),
			CORSOrigins:  splitList(v.GetString("cors_origins")),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("db_driver")),
			URL:        v.GetString("database_url"),
			SQLitePath: v.GetString("sqlite_path"),
			Debug:      v.GetBool("db_debug"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt_secret"),
			TokenTTL:  v.GetDuration("jwt_ttl"),
		},
		App: AppConfig{
			Env:        v.GetString("app_env"),
			Migrations: v.GetBool("migrations"),
			SeedDemo:   v.GetBool("seed_demo"),
		},
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
		if cfg.App.Production() {
			cfg.Database.Driver = DriverPostgres
		}
	}
	if cfg.Database.Driver == "postgresql" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Auth.JWTSecret == "" && !cfg.App.Production() {
		cfg.Auth.JWTSecret = devJWTSecret
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("SQLITE_PATH is empty")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
