package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/ics"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/recurrence"
	"github.com/example/smart-calendar/internal/templates"
	"github.com/example/smart-calendar/internal/views"
)

// EventServiceOptions tunes EventService. Zero values select the defaults.
type EventServiceOptions struct {
	Policy       CompletionPolicy
	WeekStart    time.Weekday
	Catalog      *templates.Catalog
	Metrics      Recorder
	CalendarName string
	Logger       *slog.Logger
}

// EventService orchestrates validation, status derivation and persistence
// for calendar events.
type EventService struct {
	events       persistence.EventRepository
	clock        calendar.Clock
	idGenerator  func() string
	now          func() time.Time
	policy       CompletionPolicy
	partitioner  views.Partitioner
	catalog      *templates.Catalog
	metrics      Recorder
	calendarName string
	logger       *slog.Logger
}

// NewEventService constructs an event service with default options.
func NewEventService(events persistence.EventRepository, clock calendar.Clock, idGenerator func() string, now func() time.Time) *EventService {
	return NewEventServiceWithOptions(events, clock, idGenerator, now, EventServiceOptions{})
}

// NewEventServiceWithOptions constructs an event service with explicit options.
func NewEventServiceWithOptions(events persistence.EventRepository, clock calendar.Clock, idGenerator func() string, now func() time.Time, opts EventServiceOptions) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if clock == nil {
		clock = calendar.SystemClock{Location: time.UTC, Now: now}
	}
	if opts.Policy == "" {
		opts.Policy = CompletionAdvance
	}
	if opts.Catalog == nil {
		opts.Catalog = templates.Default()
	}
	if opts.CalendarName == "" {
		opts.CalendarName = "Smart Calendar"
	}
	return &EventService{
		events:       events,
		clock:        clock,
		idGenerator:  idGenerator,
		now:          now,
		policy:       opts.Policy,
		partitioner:  views.NewPartitioner(opts.WeekStart),
		catalog:      opts.Catalog,
		metrics:      defaultRecorder(opts.Metrics),
		calendarName: opts.CalendarName,
		logger:       defaultLogger(opts.Logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

func (s *EventService) fail(ctx context.Context, logger *slog.Logger, operation, msg string, err error) {
	kind := ErrorKind(err)
	s.metrics.ServiceError("EventService", operation, kind)
	logger.ErrorContext(ctx, msg, "error", err, "error_kind", kind)
}

func (s *EventService) ready(principal Principal) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	if s.events == nil {
		return fmt.Errorf("event repository not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	return nil
}

// List returns the principal's events with statuses reconciled against
// today. Drifted statuses are written back before filtering so a status
// filter sees the derived value.
func (s *EventService) List(ctx context.Context, principal Principal, filter persistence.EventFilter) (events []calendar.Event, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "List", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "List", "failed to list events", err)
			return
		}
		logger.With("count", len(events)).DebugContext(ctx, "events listed")
	}()

	statusFilter := filter.Status
	filter.Status = nil

	var all []calendar.Event
	all, err = s.loadReconciled(ctx, logger, principal.UserID, filter)
	if err != nil {
		return
	}

	events = make([]calendar.Event, 0, len(all))
	for _, e := range all {
		if statusFilter != nil && e.Status != *statusFilter {
			continue
		}
		events = append(events, e)
	}
	return
}

// Get returns one event with its status reconciled.
func (s *EventService) Get(ctx context.Context, principal Principal, id string) (event calendar.Event, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Get", "principal_id", principal.UserID, "event_id", id)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "Get", "failed to get event", err)
		}
	}()

	event, err = s.events.GetEvent(ctx, principal.UserID, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	reconciled := calendar.Reconcile(event, s.clock.Today())
	if reconciled.Status != event.Status {
		if err = s.events.UpdateEvent(ctx, reconciled); err != nil {
			err = mapRepoError(err)
			return
		}
	}
	event = reconciled
	return
}

// Create validates a draft and stores a new event. Manual events are never
// marked as suggested.
func (s *EventService) Create(ctx context.Context, principal Principal, draft calendar.Draft) (event calendar.Event, err error) {
	if err = s.ready(principal); err != nil {
		return
	}
	draft.IsSuggested = false
	return s.create(ctx, principal, draft, SourceManual)
}

func (s *EventService) create(ctx context.Context, principal Principal, draft calendar.Draft, source string) (event calendar.Event, err error) {
	logger := s.loggerWith(ctx, "Create", "principal_id", principal.UserID, "source", source)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "Create", "failed to create event", err)
			return
		}
		logger.With("event_id", event.ID, "status", event.Status).InfoContext(ctx, "event created")
	}()

	event, err = calendar.NewEvent(s.idGenerator(), principal.UserID, draft, s.clock.Today(), s.now())
	if err != nil {
		return
	}

	if err = s.events.CreateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		event = calendar.Event{}
		return
	}

	s.metrics.EventCreated(source)
	return
}

// Update applies a partial change. An empty patch returns the stored event.
func (s *EventService) Update(ctx context.Context, principal Principal, id string, patch calendar.Patch) (event calendar.Event, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Update", "principal_id", principal.UserID, "event_id", id)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "Update", "failed to update event", err)
			return
		}
		logger.InfoContext(ctx, "event updated")
	}()

	var existing calendar.Event
	existing, err = s.events.GetEvent(ctx, principal.UserID, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if patch.IsEmpty() {
		event = calendar.Reconcile(existing, s.clock.Today())
		return
	}

	var updated calendar.Event
	updated, err = patch.Apply(existing, s.clock.Today())
	if err != nil {
		return
	}
	updated.UpdatedAt = s.now()

	if err = s.events.UpdateEvent(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	event = updated
	return
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, principal Principal, id string) error {
	if err := s.ready(principal); err != nil {
		return err
	}

	logger := s.loggerWith(ctx, "Delete", "principal_id", principal.UserID, "event_id", id)

	if err := s.events.DeleteEvent(ctx, principal.UserID, id); err != nil {
		err = mapRepoError(err)
		s.fail(ctx, logger, "Delete", "failed to delete event", err)
		return err
	}

	logger.InfoContext(ctx, "event deleted")
	return nil
}

// MarkComplete finishes the current instance of an event. One-time events
// become completed. Recurring events follow the configured policy: advance
// moves the row to its next instance, new_row keeps the completed row and
// inserts the successor. Completing an already completed event is a no-op.
func (s *EventService) MarkComplete(ctx context.Context, principal Principal, id string) (result Completion, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "MarkComplete",
		"principal_id", principal.UserID,
		"event_id", id,
		"policy", string(s.policy),
	)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "MarkComplete", "failed to complete event", err)
			return
		}
		attrs := []any{}
		if result.Next != nil {
			attrs = append(attrs, "next_event_id", result.Next.ID, "next_start", result.Next.StartDate.String())
		}
		logger.With(attrs...).InfoContext(ctx, "event completed")
	}()

	var existing calendar.Event
	existing, err = s.events.GetEvent(ctx, principal.UserID, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if existing.IsCompleted() {
		result = Completion{Completed: existing}
		return
	}

	today := s.clock.Today()
	now := s.now()

	completed := existing
	completed.Status = calendar.StatusCompleted
	completed.CompletedOn = &today
	completed.UpdatedAt = now

	if !existing.Recurrence.IsRecurring() {
		if err = s.events.UpdateEvent(ctx, completed); err != nil {
			err = mapRepoError(err)
			return
		}
		s.metrics.EventCompleted(s.policy)
		result = Completion{Completed: completed}
		return
	}

	switch s.policy {
	case CompletionNewRow:
		result, err = s.completeWithNewRow(ctx, existing, completed, today, now)
	default:
		result, err = s.completeByAdvancing(ctx, existing, completed, today, now)
	}
	if err != nil {
		return
	}
	s.metrics.EventCompleted(s.policy)
	return
}

func (s *EventService) completeByAdvancing(ctx context.Context, existing, completed calendar.Event, today civil.Date, now time.Time) (Completion, error) {
	next, err := shiftToNext(existing)
	if err != nil {
		return Completion{}, err
	}
	next.CompletedOn = &today
	next.UpdatedAt = now
	next.Status = ""
	next = calendar.Reconcile(next, today)

	if err := s.events.UpdateEvent(ctx, next); err != nil {
		return Completion{}, mapRepoError(err)
	}
	return Completion{Completed: completed, Next: &next}, nil
}

func (s *EventService) completeWithNewRow(ctx context.Context, existing, completed calendar.Event, today civil.Date, now time.Time) (Completion, error) {
	successor, err := s.successor(existing, today, now)
	if err != nil {
		return Completion{}, err
	}

	if err := s.events.CreateEvent(ctx, successor); err != nil {
		return Completion{}, mapRepoError(err)
	}
	if err := s.events.UpdateEvent(ctx, completed); err != nil {
		if delErr := s.events.DeleteEvent(ctx, successor.OwnerID, successor.ID); delErr != nil {
			return Completion{}, errors.Join(mapRepoError(err), fmt.Errorf("remove successor %s: %w", successor.ID, delErr))
		}
		return Completion{}, mapRepoError(err)
	}
	s.metrics.EventCreated(SourceRecurrence)
	return Completion{Completed: completed, Next: &successor}, nil
}

// GenerateNext inserts the next instance of a recurring event as a new row
// without touching the current one.
func (s *EventService) GenerateNext(ctx context.Context, principal Principal, id string) (event calendar.Event, err error) {
	if err = s.ready(principal); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "GenerateNext", "principal_id", principal.UserID, "event_id", id)
	defer func() {
		if err != nil {
			s.fail(ctx, logger, "GenerateNext", "failed to generate next instance", err)
			return
		}
		logger.With("next_event_id", event.ID, "next_start", event.StartDate.String()).InfoContext(ctx, "next instance generated")
	}()

	var existing calendar.Event
	existing, err = s.events.GetEvent(ctx, principal.UserID, id)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	event, err = s.successor(existing, s.clock.Today(), s.now())
	if err != nil {
		return
	}
	if err = s.events.CreateEvent(ctx, event); err != nil {
		err = mapRepoError(err)
		event = calendar.Event{}
		return
	}
	s.metrics.EventCreated(SourceRecurrence)
	return
}

// successor builds the next instance as a fresh row. It keeps the template
// key for provenance but is never suggested, so the per-owner suggestion
// key stays unique.
func (s *EventService) successor(e calendar.Event, today civil.Date, now time.Time) (calendar.Event, error) {
	next, err := shiftToNext(e)
	if err != nil {
		return calendar.Event{}, err
	}
	next.ID = s.idGenerator()
	next.IsSuggested = false
	next.CompletedOn = nil
	next.CreatedAt = now
	next.UpdatedAt = now
	next.Status = ""
	return calendar.Reconcile(next, today), nil
}

// shiftToNext moves the start date to the next occurrence and keeps the
// original span between start and end.
func shiftToNext(e calendar.Event) (calendar.Event, error) {
	nextStart, err := recurrence.Next(e.StartDate, e.Recurrence)
	if err != nil {
		if errors.Is(err, recurrence.ErrNotRecurring) {
			return calendar.Event{}, fieldError("recurrence", "one_time events have no next instance")
		}
		return calendar.Event{}, err
	}

	out := e
	if e.EndDate != nil {
		end := nextStart.AddDays(e.EndDate.DaysSince(e.StartDate))
		out.EndDate = &end
	}
	if e.LinkedPropertyID != nil {
		id := *e.LinkedPropertyID
		out.LinkedPropertyID = &id
	}
	out.StartDate = nextStart
	return out, nil
}

// Notifications returns the trigger dates of one event.
func (s *EventService) Notifications(ctx context.Context, principal Principal, id string) ([]calendar.Notification, error) {
	event, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return calendar.ScheduleNotifications(event), nil
}

// Due returns every notification firing on day across the principal's events.
func (s *EventService) Due(ctx context.Context, principal Principal, day civil.Date) ([]calendar.Notification, error) {
	events, err := s.List(ctx, principal, persistence.EventFilter{})
	if err != nil {
		return nil, err
	}
	if day.IsZero() {
		day = s.clock.Today()
	}
	return calendar.NotificationsOn(events, day), nil
}

// ListView returns the list-view sections for today.
func (s *EventService) ListView(ctx context.Context, principal Principal, filter persistence.EventFilter) ([]views.Section, error) {
	events, err := s.List(ctx, principal, filter)
	if err != nil {
		return nil, err
	}
	return s.partitioner.PartitionForList(events, s.clock.Today()), nil
}

// MonthView returns the month grid containing anchor. A zero anchor means
// the current month.
func (s *EventService) MonthView(ctx context.Context, principal Principal, anchor civil.Date, filter persistence.EventFilter) (views.MonthView, error) {
	today := s.clock.Today()
	if anchor.IsZero() {
		anchor = today
	}

	gridFrom := anchor.StartOfMonth().StartOfWeek(s.partitioner.WeekStart)
	gridTo := anchor.EndOfMonth().StartOfWeek(s.partitioner.WeekStart).AddDays(6)
	filter.StartsFrom = &gridFrom
	filter.StartsTo = &gridTo

	events, err := s.List(ctx, principal, filter)
	if err != nil {
		return views.MonthView{}, err
	}
	return s.partitioner.PartitionForMonth(events, anchor, today), nil
}

// Occurrences projects the next count instance dates of a recurring event.
func (s *EventService) Occurrences(ctx context.Context, principal Principal, id string, count int) ([]civil.Date, error) {
	if count < 1 || count > recurrence.MaxOccurrences {
		return nil, fieldError("count", fmt.Sprintf("must be between 1 and %d", recurrence.MaxOccurrences))
	}

	event, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if !event.Recurrence.IsRecurring() {
		return nil, fieldError("recurrence", "one_time events have no further occurrences")
	}
	return recurrence.Occurrences(event.StartDate, event.Recurrence, count)
}

// Templates returns the catalog grouped by persona.
func (s *EventService) Templates() []templates.Group {
	if s == nil || s.catalog == nil {
		return nil
	}
	return s.catalog.Groups()
}

// ApplyTemplate creates an event from a catalog template starting on start.
// A zero start means today.
func (s *EventService) ApplyTemplate(ctx context.Context, principal Principal, key string, start civil.Date) (calendar.Event, error) {
	if err := s.ready(principal); err != nil {
		return calendar.Event{}, err
	}

	key = strings.TrimSpace(key)
	tmpl, ok := s.catalog.Lookup(key)
	if !ok {
		err := fmt.Errorf("%w: %w %q", ErrNotFound, templates.ErrUnknownTemplate, key)
		s.fail(ctx, s.loggerWith(ctx, "ApplyTemplate", "principal_id", principal.UserID, "template_key", key),
			"ApplyTemplate", "failed to apply template", err)
		return calendar.Event{}, err
	}
	if start.IsZero() {
		start = s.clock.Today()
	}
	return s.create(ctx, principal, templates.Apply(tmpl, start), SourceTemplate)
}

// Export writes the principal's events as an iCalendar feed.
func (s *EventService) Export(ctx context.Context, principal Principal, w io.Writer) error {
	events, err := s.List(ctx, principal, persistence.EventFilter{})
	if err != nil {
		return err
	}

	logger := s.loggerWith(ctx, "Export", "principal_id", principal.UserID)
	if err := ics.Export(w, events, ics.Options{Name: s.calendarName, Now: s.now()}); err != nil {
		s.fail(ctx, logger, "Export", "failed to export calendar", err)
		return err
	}
	logger.With("count", len(events)).DebugContext(ctx, "calendar exported")
	return nil
}

func (s *EventService) loadReconciled(ctx context.Context, logger *slog.Logger, ownerID string, filter persistence.EventFilter) ([]calendar.Event, error) {
	events, err := s.events.ListEvents(ctx, ownerID, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}

	changed := calendar.ReconcileAll(events, s.clock.Today())
	for _, i := range changed {
		if err := s.events.UpdateEvent(ctx, events[i]); err != nil {
			return nil, mapRepoError(err)
		}
	}
	if len(changed) > 0 {
		logger.DebugContext(ctx, "statuses reconciled", "changed", len(changed))
	}
	return events, nil
}
