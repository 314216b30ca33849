package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/smart-calendar/internal/application"
	"github.com/example/smart-calendar/internal/calendar"
	"github.com/example/smart-calendar/internal/suggest"
)

type suggestionService interface {
	List(ctx context.Context, principal application.Principal) ([]suggest.Suggestion, error)
	Accept(ctx context.Context, principal application.Principal, key string) (calendar.Event, error)
	AcceptEdited(ctx context.Context, principal application.Principal, key string, edit suggest.Edit) (calendar.Event, error)
	Dismiss(ctx context.Context, principal application.Principal, key string) error
	ImportSignals(ctx context.Context, principal application.Principal, snap suggest.Snapshot) error
}

// SuggestionHandler serves suggestion and signal import routes.
type SuggestionHandler struct {
	service   suggestionService
	responder responder
	logger    *slog.Logger
}

func NewSuggestionHandler(service suggestionService, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	list, err := h.service.List(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, suggestionsResponse{Suggestions: nonNil(list)})
}

// Accept persists the suggestion. A JSON body is treated as an edit.
func (h *SuggestionHandler) Accept(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	var edit suggest.Edit
	edited, err := decodeJSON(r.Body, &edit)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	var event calendar.Event
	if edited {
		event, err = h.service.AcceptEdited(r.Context(), principal, key, edit)
	} else {
		event, err = h.service.Accept(r.Context(), principal, key)
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Location", "/events/"+url.PathEscape(event.ID))
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, event)
}

func (h *SuggestionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.Dismiss(r.Context(), principal, key); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// ImportSignals replaces or adds the posted records for the caller.
func (h *SuggestionHandler) ImportSignals(w http.ResponseWriter, r *http.Request) {
	var snap suggest.Snapshot
	if _, err := decodeJSON(r.Body, &snap); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.ImportSignals(r.Context(), principal, snap); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "SuggestionHandler", "ImportSignals").
		DebugContext(r.Context(), "signals accepted", "records", snap.Len())
	h.responder.writeJSON(r.Context(), w, http.StatusAccepted, importResponse{Imported: snap.Len()})
}

func (h *SuggestionHandler) key(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingKey)
		return "", false
	}
	return key, true
}

type suggestionsResponse struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type importResponse struct {
	Imported int `json:"imported"`
}
