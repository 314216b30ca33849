package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/smart-calendar/internal/application"
	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/persistence"
	"github.com/example/smart-calendar/internal/views"
)

const defaultOccurrenceCount = 12

type eventService interface {
	List(ctx context.Context, principal application.Principal, filter persistence.EventFilter) ([]calendar.Event, error)
	Get(ctx context.Context, principal application.Principal, id string) (calendar.Event, error)
	Create(ctx context.Context, principal application.Principal, draft calendar.Draft) (calendar.Event, error)
	Update(ctx context.Context, principal application.Principal, id string, patch calendar.Patch) (calendar.Event, error)
	Delete(ctx context.Context, principal application.Principal, id string) error
	MarkComplete(ctx context.Context, principal application.Principal, id string) (application.Completion, error)
	GenerateNext(ctx context.Context, principal application.Principal, id string) (calendar.Event, error)
	Notifications(ctx context.Context, principal application.Principal, id string) ([]calendar.Notification, error)
	Due(ctx context.Context, principal application.Principal, day civil.Date) ([]calendar.Notification, error)
	ListView(ctx context.Context, principal application.Principal, filter persistence.EventFilter) ([]views.Section, error)
	MonthView(ctx context.Context, principal application.Principal, anchor civil.Date, filter persistence.EventFilter) (views.MonthView, error)
	Occurrences(ctx context.Context, principal application.Principal, id string, count int) ([]civil.Date, error)
	Export(ctx context.Context, principal application.Principal, w io.Writer) error
}

// EventHandler serves event, view, notification and export routes.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	events, err := h.service.List(r.Context(), principal, filter)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventsResponse{Events: nonNil(events)})
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft calendar.Draft
	if _, err := decodeJSON(r.Body, &draft); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.Create(r.Context(), principal, draft)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Location", "/events/"+url.PathEscape(event.ID))
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, event)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	var patch calendar.Patch
	if _, err := decodeJSON(r.Body, &patch); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.Update(r.Context(), principal, id, patch)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EventHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	completion, err := h.service.MarkComplete(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, completion)
}

func (h *EventHandler) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.GenerateNext(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Location", "/events/"+url.PathEscape(event.ID))
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, event)
}

func (h *EventHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	list, err := h.service.Notifications(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationsResponse{Notifications: nonNil(list)})
}

func (h *EventHandler) Occurrences(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventID(w, r)
	if !ok {
		return
	}

	count := defaultOccurrenceCount
	if raw := strings.TrimSpace(r.URL.Query().Get("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, queryError("count", "must be an integer"))
			return
		}
		count = n
	}

	principal, _ := PrincipalFromContext(r.Context())
	dates, err := h.service.Occurrences(r.Context(), principal, id, count)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, occurrencesResponse{EventID: id, Dates: dates})
}

func (h *EventHandler) Due(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateParam(r.URL.Query(), "date")
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	list, err := h.service.Due(r.Context(), principal, day)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, notificationsResponse{Notifications: nonNil(list)})
}

func (h *EventHandler) ListView(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	sections, err := h.service.ListView(r.Context(), principal, filter)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listViewResponse{Sections: nonNil(sections)})
}

func (h *EventHandler) MonthView(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := parseFilter(query)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var anchor civil.Date
	if raw := strings.TrimSpace(query.Get("month")); raw != "" {
		anchor, err = civil.Parse(raw + "-01")
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, queryError("month", "must be formatted YYYY-MM"))
			return
		}
	}

	principal, _ := PrincipalFromContext(r.Context())
	grid, err := h.service.MonthView(r.Context(), principal, anchor, filter)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, grid)
}

// Export renders the feed into a buffer first so a failure can still be
// reported with a proper status code.
func (h *EventHandler) Export(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), principal, &buf); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		handlerLogger(r.Context(), h.logger, "EventHandler", "Export").
			WarnContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}

func (h *EventHandler) eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return "", false
	}
	return id, true
}

// parseFilter reads category, status, property, from and to. Every bad
// parameter is reported at once.
func parseFilter(query url.Values) (persistence.EventFilter, error) {
	var filter persistence.EventFilter
	verr := &calendar.ValidationError{}

	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		c, err := calendar.ParseCategory(raw)
		if err != nil {
			verr.Add("category", "is not a known category")
		} else {
			filter.Category = &c
		}
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		st, err := calendar.ParseStatus(raw)
		if err != nil {
			verr.Add("status", "is not a known status")
		} else {
			filter.Status = &st
		}
	}
	if raw := strings.TrimSpace(query.Get("property")); raw != "" {
		filter.LinkedPropertyID = &raw
	}
	for _, p := range []struct {
		name string
		dst  **civil.Date
	}{
		{"from", &filter.StartsFrom},
		{"to", &filter.StartsTo},
	} {
		raw := strings.TrimSpace(query.Get(p.name))
		if raw == "" {
			continue
		}
		d, err := civil.Parse(raw)
		if err != nil {
			verr.Add(p.name, "must be formatted YYYY-MM-DD")
			continue
		}
		*p.dst = &d
	}

	if err := verr.OrNil(); err != nil {
		return persistence.EventFilter{}, err
	}
	return filter, nil
}

func parseDateParam(query url.Values, name string) (civil.Date, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return civil.Date{}, nil
	}
	d, err := civil.Parse(raw)
	if err != nil {
		return civil.Date{}, queryError(name, "must be formatted YYYY-MM-DD")
	}
	return d, nil
}

func queryError(field, message string) error {
	verr := &calendar.ValidationError{}
	verr.Add(field, message)
	return verr
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

type eventsResponse struct {
	Events []calendar.Event `json:"events"`
}

type notificationsResponse struct {
	Notifications []calendar.Notification `json:"notifications"`
}

type occurrencesResponse struct {
	EventID string       `json:"event_id"`
	Dates   []civil.Date `json:"dates"`
}

type listViewResponse struct {
	Sections []views.Section `json:"sections"`
}
