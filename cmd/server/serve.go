package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-crm/internal/db"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Prepare the database and start the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// prepare brings the schema up to date and seeds the first-run data.
func prepare(ctx context.Context, d *db.DB) error {
	if cfg.App.Migrations {
		if err := db.Migrate(d); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Println("[DB] migrations completed")
	} else if err := db.Bootstrap(ctx, d); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	seeded, err := db.Seed(ctx, d, db.SeedOptions{Demo: cfg.App.SeedDemo})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if seeded {
		log.Printf("[DB] seeded default admin %s", db.DefaultAdminEmail)
	}
	return nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := openDB()
	if err != nil {
		return err
	}
	defer d.Close()
	if err := prepare(ctx, d); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(d, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s (env=%s, db=%s)", cfg.Server.Port, cfg.App.Env, d.Dialect.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		log.Println("Shutdown signal received")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
	return nil
}
