package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/suggest"
)

// SuggestionServiceOptions tunes SuggestionService. Zero values select the
// defaults; a zero SnapshotTTL disables snapshot caching.
type SuggestionServiceOptions struct {
	Scope             DismissalScope
	SnapshotTTL       time.Duration
	SnapshotCacheSize int
	Metrics           Recorder
	Logger            *slog.Logger
}

// SuggestionService lists, accepts and dismisses inferred suggestions.
type SuggestionService struct {
	events      persistence.EventRepository
	dismissals  persistence.DismissalStore
	signals     persistence.SignalSource
	engine      *suggest.Engine
	clock       calendar.Clock
	idGenerator func() string
	now         func() time.Time
	scope       DismissalScope
	cache       *snapshotCache
	metrics     Recorder
	logger      *slog.Logger
}

// NewSuggestionService constructs a suggestion service with default options.
func NewSuggestionService(events persistence.EventRepository, dismissals persistence.DismissalStore, signals persistence.SignalSource, clock calendar.Clock, idGenerator func() string, now func() time.Time) *SuggestionService {
	return NewSuggestionServiceWithOptions(events, dismissals, signals, clock, idGenerator, now, SuggestionServiceOptions{})
}

// NewSuggestionServiceWithOptions constructs a suggestion service with
// explicit options.
func NewSuggestionServiceWithOptions(events persistence.EventRepository, dismissals persistence.DismissalStore, signals persistence.SignalSource, clock calendar.Clock, idGenerator func() string, now func() time.Time, opts SuggestionServiceOptions) *SuggestionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if clock == nil {
		clock = calendar.SystemClock{Location: time.UTC, Now: now}
	}
	if opts.Scope == "" {
		opts.Scope = DismissByKey
	}
	logger := defaultLogger(opts.Logger)
	return &SuggestionService{
		events:      events,
		dismissals:  dismissals,
		signals:     signals,
		engine:      suggest.NewEngine(logger),
		clock:       clock,
		idGenerator: idGenerator,
		now:         now,
		scope:       opts.Scope,
		cache:       newSnapshotCache(opts.SnapshotTTL, opts.SnapshotCacheSize, now),
		metrics:     defaultRecorder(opts.Metrics),
		logger:      logger,
	}
}

func (s *SuggestionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SuggestionService", operation, attrs...)
}

func (s *SuggestionService) fail(ctx context.Context, logger *slog.Logger, operation, msg string, err error) {
	kind := ErrorKind(err)
	s.metrics.ServiceError("SuggestionService", operation, kind)
	logger.ErrorContext(ctx, msg, "error", err, "error_kind", kind)
}

func (s *SuggestionService) ready(principal Principal) error {
	if s == nil {
		return fmt.Errorf("SuggestionService is nil")
	}
	if s.events == nil || s.dismissals == nil || s.signals == nil {
		return fmt.Errorf("suggestion repositories not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	return nil
}

// List returns the suggestions that are neither accepted nor dismissed.
func (s *SuggestionService) List(ctx context.Context, principal Principal) (suggestions []suggest.Suggestion, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "List", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "List", "failed to list suggestions", err)
		}
	}()

	var report suggest.Report
	report, err = s.generate(ctx, principal.UserID)
	if err != nil {
		return
	}

	suggestions = report.Suggestions
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	return
}

func (s *SuggestionService) generate(ctx context.Context, ownerID string) (suggest.Report, error) {
	snapshot, err := s.snapshot(ctx, ownerID)
	if err != nil {
		return suggest.Report{}, err
	}
	existing, err := s.events.TemplateKeys(ctx, ownerID)
	if err != nil {
		return suggest.Report{}, mapRepoError(err)
	}
	dismissed, err := s.dismissals.DismissedKeys(ctx, ownerID)
	if err != nil {
		return suggest.Report{}, mapRepoError(err)
	}

	report := s.engine.GenerateReport(ctx, snapshot, existing, dismissed)
	s.metrics.SuggestionsGenerated(len(report.Suggestions))
	if len(report.Skipped) > 0 {
		s.metrics.SuggestionsSkipped(len(report.Skipped))
	}
	return report, nil
}

func (s *SuggestionService) snapshot(ctx context.Context, ownerID string) (suggest.Snapshot, error) {
	if cached, ok := s.cache.Get(ownerID); ok {
		return cached, nil
	}
	snapshot, err := s.signals.Snapshot(ctx, ownerID)
	if err != nil {
		return suggest.Snapshot{}, mapRepoError(err)
	}
	s.cache.Store(ownerID, snapshot)
	return snapshot, nil
}

// Accept persists the suggestion with key as a new event.
func (s *SuggestionService) Accept(ctx context.Context, principal Principal, key string) (calendar.Event, error) {
	return s.accept(ctx, principal, key, nil)
}

// AcceptEdited persists the suggestion with user overrides applied.
func (s *SuggestionService) AcceptEdited(ctx context.Context, principal Principal, key string, edit suggest.Edit) (calendar.Event, error) {
	return s.accept(ctx, principal, key, &edit)
}

func (s *SuggestionService) accept(ctx context.Context, principal Principal, key string, edit *suggest.Edit) (event calendar.Event, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	key = strings.TrimSpace(key)
	logger := s.loggerWith(ctx, "Accept",
		"principal_id", principal.UserID,
		"suggestion_key", key,
		"edited", edit != nil,
	)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "Accept", "failed to accept suggestion", err)
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "suggestion accepted")
	}()

	var found suggest.Suggestion
	found, err = s.lookup(ctx, principal.UserID, key)
	if err != nil {
		return
	}

	draft := suggest.Accept(found)
	if edit != nil {
		draft = suggest.AcceptEdited(found, *edit)
	}

	event, err = calendar.NewEvent(s.idGenerator(), principal.UserID, draft, s.clock.Today(), s.now())
	if err != nil {
		return
	}
	if err = s.events.CreateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		event = calendar.Event{}
		return
	}

	s.metrics.SuggestionAccepted(edit != nil)
	s.metrics.EventCreated(SourceSuggestion)
	return
}

// lookup finds a currently listed suggestion. A key that is no longer listed
// because an event already carries it reports ErrAlreadyExists.
func (s *SuggestionService) lookup(ctx context.Context, ownerID, key string) (suggest.Suggestion, error) {
	if key == "" {
		return suggest.Suggestion{}, fieldError("key", "is required")
	}

	report, err := s.generate(ctx, ownerID)
	if err != nil {
		return suggest.Suggestion{}, err
	}
	if found, ok := suggest.Find(report.Suggestions, key); ok {
		return found, nil
	}

	existing, err := s.events.TemplateKeys(ctx, ownerID)
	if err != nil {
		return suggest.Suggestion{}, mapRepoError(err)
	}
	for _, k := range existing {
		if k == key {
			return suggest.Suggestion{}, fmt.Errorf("%w: suggestion %q already accepted", ErrAlreadyExists, key)
		}
	}
	return suggest.Suggestion{}, fmt.Errorf("%w: suggestion %q", ErrNotFound, key)
}

// Dismiss hides a suggestion. Under the key scope any non-empty key is
// recorded and dismissing twice is harmless. Under the revision scope the
// suggestion must be listed and only its current date is hidden.
func (s *SuggestionService) Dismiss(ctx context.Context, principal Principal, key string) (err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	key = strings.TrimSpace(key)
	logger := s.loggerWith(ctx, "Dismiss",
		"principal_id", principal.UserID,
		"suggestion_key", key,
		"scope", string(s.scope),
	)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "Dismiss", "failed to dismiss suggestion", err)
			return
		}
		logger.InfoContext(ctx, "suggestion dismissed")
	}()

	if key == "" {
		err = fieldError("key", "is required")
		return
	}

	stored := key
	if s.scope == DismissByRevision {
		var found suggest.Suggestion
		found, err = s.lookup(ctx, principal.UserID, key)
		if err != nil {
			return
		}
		stored = found.Revision()
	}

	err = s.dismissals.AddDismissal(ctx, persistence.Dismissal{
		OwnerID:     principal.UserID,
		Key:         stored,
		DismissedAt: s.now(),
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}
	s.metrics.SuggestionDismissed(s.scope)
	return
}

// ImportSignals stores records pushed by the owning systems and drops the
// cached snapshot so the next listing sees them.
func (s *SuggestionService) ImportSignals(ctx context.Context, principal Principal, snap suggest.Snapshot) (err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "ImportSignals", "principal_id", principal.UserID, "records", snap.Len())
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "ImportSignals", "failed to import signals", err)
			return
		}
		logger.InfoContext(ctx, "signals imported")
	}()

	writer, ok := s.signals.(persistence.SignalWriter)
	if !ok {
		err = fmt.Errorf("signal source does not accept imports")
		return
	}
	if err = writer.SaveSnapshot(ctx, principal.UserID, snap); err != nil {
		err = mapRepoError(err)
		return
	}
	s.cache.Invalidate(principal.UserID)
	return
}
