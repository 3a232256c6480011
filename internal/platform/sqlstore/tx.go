package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// inTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back on error or panic; a panic is re-raised after the rollback.
func (s *Store) inTx(ctx context.Context, log *slog.Logger, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back library transaction after panic",
					slog.String("error", redact.Error(rbErr)),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back library transaction",
				slog.String("rollback_error", redact.Error(rbErr)),
				slog.String("original_error", redact.Error(err)))
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		log.Debug("library transaction rolled back")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", store.ErrTransactionFailed, err)
	}
	return nil
}
