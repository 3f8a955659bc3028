package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bible-bee-api/pkg/schema/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// OpenPostgres connects to the hosted PostgreSQL database (live mode)
func OpenPostgres(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.PostgresURI == "" {
		return nil, fmt.Errorf("POSTGRES_URI is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Verify connectivity
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	return db, nil
}
