package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/scry-vocab/internal/archive"
	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/phrazzld/scry-vocab/internal/service"
	"github.com/phrazzld/scry-vocab/internal/service/review"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// application holds the shared dependencies of one command invocation and
// releases them on close.
type application struct {
	config *config.Config
	logger *slog.Logger

	store   store.LibraryStore
	library *service.LibraryService

	emitter *events.InMemoryEventEmitter
	tally   *events.Tally
}

// appFactory builds the application for a command. configPath may be empty.
type appFactory func(ctx context.Context, configPath string, stderr io.Writer) (*application, error)

// defaultAppFactory loads configuration, sets up logging to stderr and opens
// the configured store.
func defaultAppFactory(ctx context.Context, configPath string, stderr io.Writer) (*application, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	st, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, cfg, log, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return app, nil
}

// newApplication wires services around an already opened store and loads the
// library.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	st store.LibraryStore,
) (*application, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, fmt.Errorf("invalid srs configuration: %w", err)
	}
	srsService, err := srs.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create srs service: %w", err)
	}

	var container archive.Container = archive.NoContainer{}
	if cfg.Archive.Compression {
		container = archive.ZipContainer{}
	}

	library := service.NewLibraryService(st, srsService, archive.NewCodec(container, log), log)
	if err := library.Open(ctx); err != nil {
		return nil, err
	}

	tally := events.NewTally()
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.NewLogHandler(log))
	emitter.RegisterHandler(tally)

	log.Debug("application initialized",
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.Bool("archive_compression", cfg.Archive.Compression))

	return &application{
		config:  cfg,
		logger:  log,
		store:   st,
		library: library,
		emitter: emitter,
		tally:   tally,
	}, nil
}

// newSession creates a review session over the application's library.
func (a *application) newSession(opts ...review.BuilderOption) *review.Session {
	builder := review.NewQueueBuilder(a.library.Params(), opts...)
	return review.NewSession(a.library, builder,
		review.WithEmitter(a.emitter),
		review.WithLogger(a.logger))
}

func (a *application) close() error {
	return a.store.Close()
}

// appHolder builds the application lazily, once the root command has parsed
// its flags, and shares it with every subcommand.
type appHolder struct {
	factory appFactory
	app     *application
}

func (h *appHolder) init(ctx context.Context, configPath string, stderr io.Writer) error {
	if h.app != nil {
		return nil
	}
	app, err := h.factory(ctx, configPath, stderr)
	if err != nil {
		return err
	}
	h.app = app
	return nil
}

func (h *appHolder) close() {
	if h.app == nil {
		return
	}
	if err := h.app.close(); err != nil {
		h.app.logger.Error("failed to close store", slog.String("error", err.Error()))
	}
	h.app = nil
}
