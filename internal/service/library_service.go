package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/scry-vocab/internal/archive"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// LibraryService owns the current library and persists every change through
// a store.LibraryStore. It is safe for concurrent use.
type LibraryService struct {
	mu     sync.RWMutex
	lib    *domain.Library
	opened bool

	store  store.LibraryStore
	srs    srs.Service
	codec  *archive.Codec
	ids    *Sequence
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a LibraryService.
type Option func(*LibraryService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LibraryService) { s.now = now }
}

// NewLibraryService creates a LibraryService. Open must be called before use.
func NewLibraryService(
	libraryStore store.LibraryStore,
	srsService srs.Service,
	codec *archive.Codec,
	logger *slog.Logger,
	opts ...Option,
) *LibraryService {
	if libraryStore == nil {
		panic("libraryStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if codec == nil {
		codec = archive.NewCodec(nil, logger)
	}

	s := &LibraryService{
		lib:    domain.NewLibrary(),
		store:  libraryStore,
		srs:    srsService,
		codec:  codec,
		ids:    NewSequence(0),
		now:    time.Now,
		logger: logger.With(slog.String("component", "library_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the library from the store. Missing data yields an empty
// library; corrupt data is logged and replaced by whatever the store could
// salvage, or an empty library. Only an unreachable store is an error.
func (s *LibraryService) Open(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lib, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			log.Error("failed to load library", slog.String("error", redact.Error(err)))
			return NewServiceError("open", "failed to load library", err)
		}
		log.Warn("stored library is corrupt, starting from what could be recovered",
			slog.String("error", redact.Error(err)))
		if lib == nil {
			lib = domain.NewLibrary()
		}
	}
	if fixed := lib.Repair(s.srs.Params().Len()); len(fixed) > 0 {
		log.Warn("stored words adjusted to the stage ladder",
			slog.Int("changes", len(fixed)),
			slog.String("first", fixed[0]))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lib = lib
	s.opened = true
	s.ids.Observe(lib.MaxID())

	log.Info("library opened",
		slog.Int("groups", len(lib.Groups)),
		slog.Int("words", lib.WordCount()))
	return nil
}

// Params returns the stage ladder in use.
func (s *LibraryService) Params() *srs.Params {
	return s.srs.Params()
}

// Snapshot returns a deep copy of the current library.
func (s *LibraryService) Snapshot() *domain.Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib.Clone()
}

// Stats summarizes the current library at the service clock's now.
func (s *LibraryService) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.lib, s.srs.Params(), s.now())
}

// mutate applies fn to a copy of the library, saves the copy and makes it
// current. On any error the current library is unchanged.
func (s *LibraryService) mutate(ctx context.Context, op string, fn func(lib *domain.Library) error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return NewServiceError(op, "library not loaded", ErrNotOpen)
	}

	// Ids taken by a change that is not kept go back to the sequence.
	mark := s.ids.Mark()
	next := s.lib.Clone()
	if err := fn(next); err != nil {
		s.ids.Rewind(mark)
		return err
	}

	if err := s.store.Save(ctx, next); err != nil {
		s.ids.Rewind(mark)
		log.Error("failed to save library",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return NewServiceError(op, "failed to save library", err)
	}

	s.lib = next
	return nil
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", domain.ErrNotFound, kind, id)
}

// CreateGroup adds an empty group.
func (s *LibraryService) CreateGroup(ctx context.Context, name string) (domain.Group, error) {
	g := domain.Group{Name: strings.TrimSpace(name), Words: []domain.Word{}}
	if err := g.Validate(); err != nil {
		return domain.Group{}, err
	}

	err := s.mutate(ctx, "create_group", func(lib *domain.Library) error {
		g.ID = s.ids.Next()
		lib.Groups = append(lib.Groups, g)
		return nil
	})
	if err != nil {
		return domain.Group{}, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("group created",
		slog.Int64("group_id", g.ID))
	return g, nil
}

// RenameGroup changes a group's name in place.
func (s *LibraryService) RenameGroup(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyGroupName)
	}
	return s.mutate(ctx, "rename_group", func(lib *domain.Library) error {
		g := lib.FindGroup(id)
		if g == nil {
			return notFound("group", id)
		}
		g.Name = name
		return nil
	})
}

// DeleteGroup removes a group and all of its words.
func (s *LibraryService) DeleteGroup(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete_group", func(lib *domain.Library) error {
		if !lib.RemoveGroup(id) {
			return notFound("group", id)
		}
		return nil
	})
}

// AddWord creates a word on stage 0 in the given group.
func (s *LibraryService) AddWord(ctx context.Context, groupID int64, term, definition string) (domain.Word, error) {
	draft := domain.Word{
		GroupID:    groupID,
		Term:       strings.TrimSpace(term),
		Definition: strings.TrimSpace(definition),
	}
	if err := draft.Validate(); err != nil {
		return domain.Word{}, err
	}

	var created domain.Word
	err := s.mutate(ctx, "add_word", func(lib *domain.Library) error {
		g := lib.FindGroup(groupID)
		if g == nil {
			return notFound("group", groupID)
		}
		draft.ID = s.ids.Next()
		w, err := s.srs.Schedule(&draft, s.now())
		if err != nil {
			return err
		}
		g.Words = append(g.Words, *w)
		created = *w
		return nil
	})
	if err != nil {
		return domain.Word{}, err
	}
	return created, nil
}

// EditWord replaces a word's term and definition. Stage and timing are kept.
func (s *LibraryService) EditWord(ctx context.Context, id int64, term, definition string) (domain.Word, error) {
	probe := domain.Word{Term: strings.TrimSpace(term), Definition: strings.TrimSpace(definition)}
	if err := probe.Validate(); err != nil {
		return domain.Word{}, err
	}

	var edited domain.Word
	err := s.mutate(ctx, "edit_word", func(lib *domain.Library) error {
		_, w := lib.FindWord(id)
		if w == nil {
			return notFound("word", id)
		}
		w.Term = probe.Term
		w.Definition = probe.Definition
		edited = *w
		return nil
	})
	if err != nil {
		return domain.Word{}, err
	}
	return edited, nil
}

// DeleteWord removes a single word.
func (s *LibraryService) DeleteWord(ctx context.Context, id int64) error {
	return s.mutate(ctx, "delete_word", func(lib *domain.Library) error {
		g, _ := lib.FindWord(id)
		if g == nil {
			return notFound("word", id)
		}
		g.RemoveWord(id)
		return nil
	})
}

// GradeWord applies a review outcome to the stored word with the given id
// and persists it. A missing word is reported as domain.ErrNotFound.
func (s *LibraryService) GradeWord(ctx context.Context, id int64, correct bool) (domain.Word, error) {
	var graded domain.Word
	err := s.mutate(ctx, "grade_word", func(lib *domain.Library) error {
		_, w := lib.FindWord(id)
		if w == nil {
			return notFound("word", id)
		}
		next, err := s.srs.Grade(w, correct, s.now())
		if err != nil {
			return err
		}
		*w = *next
		graded = *next
		return nil
	})
	if err != nil {
		return domain.Word{}, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("word graded",
		slog.Int64("word_id", id),
		slog.Bool("correct", correct),
		slog.Int("stage_index", graded.StageIndex))
	return graded, nil
}

// Import decodes a backup and merges its groups into the library. Entries
// that could not be decoded or merged are skipped; they are reported in the
// returned error, which is then a *multierror.Error, while the report
// describes what was added. Storage failures add nothing.
func (s *LibraryService) Import(ctx context.Context, data []byte) (MergeReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	groups, decodeErr := s.codec.Decode(ctx, data)
	var formatErrs *multierror.Error
	if decodeErr != nil {
		var merr *multierror.Error
		if !errors.As(decodeErr, &merr) {
			return MergeReport{}, NewServiceError("import", "failed to decode archive", decodeErr)
		}
		formatErrs = multierror.Append(formatErrs, merr.Errors...)
	}
	if len(groups) == 0 {
		log.Warn("import contained no usable groups")
		return MergeReport{Skipped: len(formatErrs.WrappedErrors())}, formatErrs.ErrorOrNil()
	}

	var report MergeReport
	err := s.mutate(ctx, "import", func(lib *domain.Library) error {
		merged, r, mergeErr := Merge(lib, groups, s.ids, s.srs.Params(), s.now())
		if mergeErr != nil {
			var merr *multierror.Error
			if errors.As(mergeErr, &merr) {
				formatErrs = multierror.Append(formatErrs, merr.Errors...)
			} else {
				formatErrs = multierror.Append(formatErrs, mergeErr)
			}
		}
		*lib = *merged
		report = r
		return nil
	})
	if err != nil {
		return MergeReport{}, err
	}

	if formatErrs != nil {
		report.Skipped = len(formatErrs.Errors)
	}
	log.Info("import finished",
		slog.Int("groups_added", report.GroupsAdded),
		slog.Int("words_added", report.WordsAdded),
		slog.Int("skipped", report.Skipped))
	return report, formatErrs.ErrorOrNil()
}

// ExportGroup encodes one group for backup.
func (s *LibraryService) ExportGroup(ctx context.Context, id int64) ([]byte, archive.Format, error) {
	g := s.Snapshot().FindGroup(id)
	if g == nil {
		return nil, 0, notFound("group", id)
	}
	data, format, err := s.codec.ExportGroup(ctx, *g)
	if err != nil {
		return nil, 0, NewServiceError("export_group", "failed to encode group", err)
	}
	return data, format, nil
}

// ExportAll encodes every group for backup.
func (s *LibraryService) ExportAll(ctx context.Context) ([]byte, archive.Format, error) {
	lib := s.Snapshot()
	if len(lib.Groups) == 0 {
		return nil, 0, ErrNothingToExport
	}
	data, format, err := s.codec.ExportAll(ctx, lib.Groups)
	if err != nil {
		return nil, 0, NewServiceError("export_all", "failed to encode library", err)
	}
	return data, format, nil
}
