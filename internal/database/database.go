package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"connectly/internal/config"
)

//go:embed schema.sql
var schema string

// DSN builds a key/value connection string understood by both lib/pq and pgx.
func DSN(cfg *config.Config) string {
	sslmode := cfg.DBSSLMode
	if sslmode == "" {
		sslmode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, sslmode)
}

// DriverName maps DB_DRIVER to a registered database/sql driver.
func DriverName(driver string) (string, error) {
	switch driver {
	case "", "postgres", "pq":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func Connect(cfg *config.Config, logger *slog.Logger) (*sqlx.DB, error) {
	driver, err := DriverName(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("connected to database", "driver", driver, "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}

// Migrate creates any missing tables and indexes. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
