package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/smart-calendar/internal/application"
	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/config"
	httptransport "github.com/example/smart-calendar/internal/http"
	"github.com/example/smart-calendar/internal/metrics"
	"github.com/example/smart-calendar/internal/persistence/sqlite"
	"github.com/example/smart-calendar/internal/templates"
)

// app is the wired service graph behind the HTTP server.
type app struct {
	Handler http.Handler
	Storage *sqlite.Storage
	Metrics *metrics.Metrics
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	catalog, err := templates.Load(cfg.TemplatesFile)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	now := time.Now
	storage, err := sqlite.Open(cfg.SQLiteDSN, sqlite.WithLogger(logger), sqlite.WithNow(now))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	auth, err := application.NewAuthenticator(cfg.AuthUser, cfg.AuthPasswordHash, nil, logger)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	m := metrics.New()
	m.WatchDB(storage.Stats)

	clock := calendar.SystemClock{Location: cfg.Location, Now: now}
	idGenerator := uuid.NewString

	events := application.NewEventServiceWithOptions(storage, clock, idGenerator, now, application.EventServiceOptions{
		Policy:       cfg.CompletionPolicy,
		WeekStart:    cfg.WeekStart,
		Catalog:      catalog,
		Metrics:      m,
		CalendarName: cfg.CalendarName,
		Logger:       logger,
	})
	suggestions := application.NewSuggestionServiceWithOptions(storage, storage, storage, clock, idGenerator, now, application.SuggestionServiceOptions{
		Scope:       cfg.DismissalScope,
		SnapshotTTL: cfg.SnapshotTTL,
		Metrics:     m,
		Logger:      logger,
	})

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Events:      httptransport.NewEventHandler(events, logger),
		Suggestions: httptransport.NewSuggestionHandler(suggestions, logger),
		Catalog:     httptransport.NewCatalogHandler(events, logger),
		Auth:        auth,
		Observer:    m,
		Metrics:     m.Handler(),
		Ping:        storage.Ping,
		Logger:      logger,
		Timeout:     cfg.RequestTimeout,
	})

	logger.Info("calendar service ready", "templates", catalog.Len())
	return &app{Handler: handler, Storage: storage, Metrics: m}, nil
}

// Close releases the storage pool.
func (a *app) Close() error {
	return a.Storage.Close()
}
