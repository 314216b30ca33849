package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/smart-calendar/internal/application"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/persistence/memory"
	"github.com/example/smart-calendar/internal/templates"
)

// ServiceFactory builds application services that share a deterministic
// clock and id sequence.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory returns a factory at ReferenceTime with a discarding
// logger.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("evt"),
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("evt")
	}
	return factory
}

// WithClock overrides the clock.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger overrides the logger handed to services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// EventServiceDeps captures what an event service needs. A nil Events uses
// a fresh memory store.
type EventServiceDeps struct {
	Events    persistence.EventRepository
	Policy    application.CompletionPolicy
	WeekStart time.Weekday
	Catalog   *templates.Catalog
	Metrics   application.Recorder
}

// NewEventService builds an event service on the factory clock and ids.
func (f *ServiceFactory) NewEventService(deps EventServiceDeps) *application.EventService {
	events := deps.Events
	if events == nil {
		events = memory.New()
	}
	return application.NewEventServiceWithOptions(
		events,
		f.Clock,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		application.EventServiceOptions{
			Policy:    deps.Policy,
			WeekStart: deps.WeekStart,
			Catalog:   deps.Catalog,
			Metrics:   deps.Metrics,
			Logger:    f.Logger,
		},
	)
}

// SuggestionServiceDeps captures what a suggestion service needs. A nil
// Store uses a fresh memory store for events, dismissals and signals.
type SuggestionServiceDeps struct {
	Store       *memory.Store
	Scope       application.DismissalScope
	SnapshotTTL time.Duration
	Metrics     application.Recorder
}

// NewSuggestionService builds a suggestion service on the factory clock and
// ids.
func (f *ServiceFactory) NewSuggestionService(deps SuggestionServiceDeps) *application.SuggestionService {
	store := deps.Store
	if store == nil {
		store = memory.New()
	}
	return application.NewSuggestionServiceWithOptions(
		store,
		store,
		store,
		f.Clock,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		application.SuggestionServiceOptions{
			Scope:       deps.Scope,
			SnapshotTTL: deps.SnapshotTTL,
			Metrics:     deps.Metrics,
			Logger:      f.Logger,
		},
	)
}
