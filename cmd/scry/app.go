package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/platform/filestore"
	"github.com/phrazzld/scry-deck/internal/platform/kvstore"
	"github.com/phrazzld/scry-deck/internal/platform/postgres"
	"github.com/phrazzld/scry-deck/internal/service"
	"github.com/phrazzld/scry-deck/internal/service/study"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/spf13/cobra"
)

// badgerDirName is the badger database directory inside the data directory.
const badgerDirName = "badger"

// app holds the wired components shared by the deck commands.
type app struct {
	engine  *study.Engine
	logger  *slog.Logger
	closers []func() error
}

// Close releases the storage backend.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// openApp connects the configured backend, builds the engine and starts it.
func (o *rootOptions) openApp(ctx context.Context) (*app, error) {
	a := &app{logger: o.logger}

	backend, err := openBackend(ctx, o.cfg.Storage, o.logger)
	if err != nil {
		return nil, err
	}
	if backend.close != nil {
		a.closers = append(a.closers, backend.close)
	}

	repo, err := service.NewDeckRepository(backend.decks, backend.backups, o.logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create deck repository: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(o.logger)
	emitter.RegisterHandler(logEvents(o.logger))

	engine, err := study.NewEngine(repo,
		study.WithLogger(o.logger),
		study.WithEmitter(emitter),
		study.WithFilter(o.cfg.Study.Lessons, o.cfg.Study.ShowOnlyDue),
	)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create study engine: %w", err)
	}
	engine.Start(ctx)

	a.engine = engine
	return a, nil
}

type backend struct {
	decks   store.DeckStore
	backups store.BackupStore
	close   func() error
}

func openBackend(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (backend, error) {
	switch cfg.Driver {
	case config.DriverFile:
		fs := filestore.New(cfg.DataDir, log)
		return backend{decks: fs, backups: fs}, nil

	case config.DriverBadger:
		db, err := kvstore.Open(kvstore.Options{
			Path:       filepath.Join(cfg.DataDir, badgerDirName),
			SyncWrites: true,
			Logger:     log,
		})
		if err != nil {
			return backend{}, err
		}
		kv := kvstore.New(db, log)
		return backend{decks: kv, backups: kv, close: db.Close}, nil

	case config.DriverPostgres:
		log.Info("connecting to database", slog.String("url", maskDatabaseURL(cfg.DatabaseURL)))
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return backend{}, err
		}
		pg := postgres.NewPostgresDeckStore(db, log)

		// A missing schema would otherwise read as an unreadable deck.
		if _, err := pg.Load(ctx); errors.Is(err, postgres.ErrSchemaMissing) {
			_ = db.Close()
			return backend{}, postgres.ErrSchemaMissing
		}
		return backend{decks: pg, backups: pg, close: db.Close}, nil

	default:
		return backend{}, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// logEvents returns a handler that traces engine events at debug level.
func logEvents(log *slog.Logger) events.EventHandler {
	return events.HandlerFunc(func(_ context.Context, event *events.Event) error {
		log.Debug("engine event",
			slog.String("event_type", string(event.Type)),
			slog.String("card_id", event.CardID.String()))
		return nil
	})
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}
	return dbURL
}

// withApp opens the app for one command invocation and closes it afterwards.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := o.openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
