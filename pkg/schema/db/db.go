package db

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/bible-bee-api/pkg/schema/config"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

// Backend selects the storage technology behind the repositories
type Backend string

const (
	// BackendSQLite is the embedded demo database
	BackendSQLite Backend = "sqlite"
	// BackendPostgres is the hosted live database
	BackendPostgres Backend = "postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package state
var gooseMu sync.Mutex

// Open connects to the configured backend
func Open(ctx context.Context, backend Backend, cfg *config.Config) (*sqlx.DB, error) {
	switch backend {
	case BackendPostgres:
		return OpenPostgres(ctx, cfg)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Migrate applies the embedded schema migrations
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect, err := gooseDialect(db.DriverName())
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func gooseDialect(driverName string) (string, error) {
	switch driverName {
	case "postgres":
		return "postgres", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driverName)
	}
}
