// Package filestore persists the library as a single JSON document on disk.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/redact"
	"github.com/phrazzld/scry-vocab/internal/store"
)

const (
	entityLibrary = "library"

	// formatVersion is written into every document.
	formatVersion = 1
)

type document struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"savedAt"`
	Groups  []domain.Group `json:"groups"`
}

// Store keeps the library in one JSON file. Writes go to a temporary file in
// the same directory which is then renamed over the target.
type Store struct {
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger *slog.Logger
}

// Ensure Store implements store.LibraryStore interface
var _ store.LibraryStore = (*Store)(nil)

// New creates a Store for path. The file does not need to exist.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		now:    time.Now,
		logger: logger.With(slog.String("component", "file_library_store")),
	}
}

// Path returns the location of the library document.
func (s *Store) Path() string {
	return s.path
}

// Load implements store.LibraryStore.Load. A missing file yields an empty
// library. A file that cannot be decoded, or that had to be repaired, is moved
// aside to <path>.corrupt-<unix seconds>; the repaired or empty library is
// returned together with an error wrapping store.ErrCorrupt.
func (s *Store) Load(ctx context.Context) (*domain.Library, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("no library file yet, starting empty")
		return domain.NewLibrary(), nil
	}
	if err != nil {
		log.Error("failed to read library file", slog.String("error", redact.Error(err)))
		return nil, store.Unavailable(entityLibrary, "load", err)
	}

	lib, problems, decodeErr := decode(data)
	if decodeErr == nil && len(problems) == 0 {
		log.Debug("library loaded",
			slog.Int("groups", len(lib.Groups)),
			slog.Int("words", lib.WordCount()))
		return lib, nil
	}

	aside := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
	if err := os.Rename(s.path, aside); err != nil {
		log.Error("failed to move corrupt library file aside", slog.String("error", redact.Error(err)))
		return nil, store.Unavailable(entityLibrary, "load", err)
	}

	if decodeErr != nil {
		log.Warn("library file is corrupt, moved aside and starting empty",
			slog.String("moved_to", filepath.Base(aside)),
			slog.String("error", decodeErr.Error()))
		return domain.NewLibrary(), store.NewStoreError(entityLibrary, "load",
			"library file is corrupt", fmt.Errorf("%w: %w", store.ErrCorrupt, decodeErr))
	}

	log.Warn("library file needed repair, original moved aside",
		slog.String("moved_to", filepath.Base(aside)),
		slog.Int("problems", len(problems)))
	return lib, store.NewStoreError(entityLibrary, "load",
		"library file is invalid: "+strings.Join(problems, "; "), store.ErrCorrupt)
}

func decode(data []byte) (*domain.Library, []string, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if doc.Version > formatVersion {
		return nil, nil, fmt.Errorf("unsupported library format version %d", doc.Version)
	}
	lib := &domain.Library{Groups: doc.Groups}
	if lib.Groups == nil {
		lib.Groups = []domain.Group{}
	}
	return lib, lib.Repair(0), nil
}

// Save implements store.LibraryStore.Save.
func (s *Store) Save(ctx context.Context, lib *domain.Library) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if lib == nil {
		return store.NewStoreError(entityLibrary, "save", "library is nil", store.ErrInvalidEntity)
	}
	if err := lib.Validate(); err != nil {
		return store.NewStoreError(entityLibrary, "save", "library is invalid",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	if err := ctx.Err(); err != nil {
		return store.Unavailable(entityLibrary, "save", err)
	}

	data, err := json.MarshalIndent(document{
		Version: formatVersion,
		SavedAt: s.now().UTC(),
		Groups:  lib.Groups,
	}, "", "  ")
	if err != nil {
		return store.NewStoreError(entityLibrary, "save", "encode library", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		log.Error("failed to write library file", slog.String("error", redact.Error(err)))
		return store.Unavailable(entityLibrary, "save", err)
	}

	log.Debug("library saved",
		slog.Int("groups", len(lib.Groups)),
		slog.Int("words", lib.WordCount()))
	return nil
}

// Close implements store.LibraryStore.Close.
func (s *Store) Close() error {
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
