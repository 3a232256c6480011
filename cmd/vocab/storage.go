package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/platform/filestore"
	"github.com/phrazzld/scry-vocab/internal/platform/memstore"
	"github.com/phrazzld/scry-vocab/internal/platform/sqlstore"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// openStore opens the library backend named by cfg.Driver.
func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (store.LibraryStore, error) {
	switch cfg.Driver {
	case "sqlite":
		log.Debug("opening sqlite store", slog.String("path", redact.String(cfg.Path)))
		st, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, cfg.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return st, nil
	case "postgres":
		log.Debug("opening postgres store", slog.String("url", redact.DSN(cfg.URL)))
		st, err := sqlstore.Open(ctx, sqlstore.DialectPostgres, cfg.URL, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return st, nil
	case "file":
		return filestore.New(cfg.Path, log), nil
	case "memory":
		return memstore.New(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
