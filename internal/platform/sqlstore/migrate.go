package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table used by this package.
const MigrationTableName = "vocab_schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose configuration is process-global.
var gooseMu sync.Mutex

// Migrate applies all pending migrations for the given dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(MigrationTableName)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	before, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if after != before {
		logger.Info("applied schema migrations",
			slog.String("dialect", string(dialect)),
			slog.Int64("from_version", before),
			slog.Int64("to_version", after))
	}
	return nil
}
