package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	// Drivers for the two supported dialects.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const entityLibrary = "library"

// Store implements store.LibraryStore on a *sql.DB. The whole library is
// replaced on every Save inside one transaction.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Ensure Store implements store.LibraryStore interface
var _ store.LibraryStore = (*Store)(nil)

// Open connects to the database, verifies the connection and applies pending
// migrations.
func Open(ctx context.Context, dialect Dialect, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open(dialect.driverName(), dialect.dsn(dsn))
	if err != nil {
		return nil, store.Unavailable(entityLibrary, "open",
			fmt.Errorf("open %s database: %s", dialect, redact.DSN(dsn)))
	}
	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("database ping failed",
			slog.String("dialect", string(dialect)),
			slog.String("dsn", redact.DSN(dsn)),
			slog.String("error", redact.Error(err)))
		return nil, store.Unavailable(entityLibrary, "open", err)
	}

	if err := Migrate(ctx, db, dialect, logger); err != nil {
		_ = db.Close()
		return nil, store.Unavailable(entityLibrary, "migrate", err)
	}

	logger.Debug("library database ready",
		slog.String("dialect", string(dialect)),
		slog.String("dsn", redact.DSN(dsn)))
	return New(db, dialect, logger), nil
}

// New wraps an already migrated database. The caller keeps ownership of db
// only until Close is called on the store.
func New(db *sql.DB, dialect Dialect, logger *slog.Logger) *Store {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "sql_library_store")),
	}
}

// DB exposes the underlying handle for health checks and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close implements store.LibraryStore.Close.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements store.LibraryStore.Load. Rows that break the library
// invariants are repaired, and orphan words are skipped; the salvaged library
// is then returned together with an error wrapping store.ErrCorrupt.
func (s *Store) Load(ctx context.Context) (*domain.Library, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lib := domain.NewLibrary()
	index := make(map[int64]int)
	var problems []string

	groupRows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT id, name FROM vocab_groups ORDER BY sort_order, id`))
	if err != nil {
		return nil, s.fail(log, "load", err)
	}
	for groupRows.Next() {
		var g domain.Group
		if err := groupRows.Scan(&g.ID, &g.Name); err != nil {
			_ = groupRows.Close()
			return nil, s.fail(log, "load", err)
		}
		g.Words = []domain.Word{}
		index[g.ID] = len(lib.Groups)
		lib.Groups = append(lib.Groups, g)
	}
	if err := groupRows.Err(); err != nil {
		_ = groupRows.Close()
		return nil, s.fail(log, "load", err)
	}
	_ = groupRows.Close()

	wordRows, err := s.db.QueryContext(ctx, s.dialect.rebind(`
		SELECT id, group_id, term, definition, stage_index, next_review_at, created_at
		FROM vocab_words
		ORDER BY group_id, sort_order, id`))
	if err != nil {
		return nil, s.fail(log, "load", err)
	}
	defer func() { _ = wordRows.Close() }()

	for wordRows.Next() {
		var (
			w                   domain.Word
			nextReview, created int64
		)
		if err := wordRows.Scan(&w.ID, &w.GroupID, &w.Term, &w.Definition,
			&w.StageIndex, &nextReview, &created); err != nil {
			return nil, s.fail(log, "load", err)
		}
		w.NextReviewAt = fromNanos(nextReview)
		w.CreatedAt = fromNanos(created)

		i, ok := index[w.GroupID]
		if !ok {
			problems = append(problems, fmt.Sprintf("word %d skipped, group %d is missing", w.ID, w.GroupID))
			continue
		}
		lib.Groups[i].Words = append(lib.Groups[i].Words, w)
	}
	if err := wordRows.Err(); err != nil {
		return nil, s.fail(log, "load", err)
	}

	problems = append(problems, lib.Repair(0)...)
	if len(problems) > 0 {
		log.Warn("stored library needed repair",
			slog.Int("problems", len(problems)),
			slog.String("first", problems[0]))
		return lib, store.NewStoreError(entityLibrary, "load",
			"stored library is invalid: "+strings.Join(problems, "; "), store.ErrCorrupt)
	}

	log.Debug("library loaded",
		slog.Int("groups", len(lib.Groups)),
		slog.Int("words", lib.WordCount()))
	return lib, nil
}

// Save implements store.LibraryStore.Save.
func (s *Store) Save(ctx context.Context, lib *domain.Library) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if lib == nil {
		return store.NewStoreError(entityLibrary, "save", "library is nil", store.ErrInvalidEntity)
	}
	if err := lib.Validate(); err != nil {
		log.Warn("library validation failed during save", slog.String("error", err.Error()))
		return store.NewStoreError(entityLibrary, "save", "library is invalid",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	err := s.inTx(ctx, log, func(tx *sql.Tx) error {
		return s.replaceAll(ctx, tx, lib)
	})
	if err != nil {
		return s.fail(log, "save", err)
	}

	log.Debug("library saved",
		slog.Int("groups", len(lib.Groups)),
		slog.Int("words", lib.WordCount()))
	return nil
}

func (s *Store) replaceAll(ctx context.Context, tx execer, lib *domain.Library) error {
	// Words go first so the foreign key never blocks the group delete.
	if _, err := tx.ExecContext(ctx, `DELETE FROM vocab_words`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vocab_groups`); err != nil {
		return err
	}

	insertGroup := s.dialect.rebind(
		`INSERT INTO vocab_groups (id, name, sort_order) VALUES ($1, $2, $3)`)
	insertWord := s.dialect.rebind(`
		INSERT INTO vocab_words
			(id, group_id, term, definition, stage_index, next_review_at, created_at, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)

	for gi, g := range lib.Groups {
		if _, err := tx.ExecContext(ctx, insertGroup, g.ID, g.Name, gi); err != nil {
			return fmt.Errorf("insert group %d: %w", g.ID, err)
		}
		for wi, w := range g.Words {
			if _, err := tx.ExecContext(ctx, insertWord,
				w.ID, g.ID, w.Term, w.Definition, w.StageIndex,
				toNanos(w.NextReviewAt), toNanos(w.CreatedAt), wi,
			); err != nil {
				return fmt.Errorf("insert word %d: %w", w.ID, err)
			}
		}
	}
	return nil
}

// fail maps err, logs it without leaking connection details and wraps it in a
// StoreError.
func (s *Store) fail(log *slog.Logger, op string, err error) error {
	mapped := MapError(err)
	log.Error("library store operation failed",
		slog.String("operation", op),
		slog.String("dialect", string(s.dialect)),
		slog.String("error", redact.Error(err)))
	return store.NewStoreError(entityLibrary, op, "database operation failed", mapped)
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
