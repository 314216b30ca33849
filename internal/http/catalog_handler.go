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
	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/templates"
)

type templateService interface {
	Templates() []templates.Group
	ApplyTemplate(ctx context.Context, principal application.Principal, key string, start civil.Date) (calendar.Event, error)
}

// CatalogHandler serves the template catalog and the category taxonomy.
type CatalogHandler struct {
	service   templateService
	responder responder
}

func NewCatalogHandler(service templateService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, responder: newResponder(logger)}
}

func (h *CatalogHandler) Templates(w http.ResponseWriter, r *http.Request) {
	h.responder.writeJSON(r.Context(), w, http.StatusOK, templatesResponse{Groups: nonNil(h.service.Templates())})
}

func (h *CatalogHandler) Apply(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingKey)
		return
	}

	var req applyTemplateRequest
	if _, err := decodeJSON(r.Body, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	event, err := h.service.ApplyTemplate(r.Context(), principal, key, req.StartDate)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Location", "/events/"+url.PathEscape(event.ID))
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, event)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	all := calendar.Categories()
	out := make([]categoryDTO, 0, len(all))
	for _, c := range all {
		info, _ := c.Info()
		out = append(out, categoryDTO{
			Key:         c,
			Label:       info.Label,
			Domain:      info.Domain,
			DomainLabel: info.Domain.Label(),
			Color:       info.Color,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, categoriesResponse{Categories: out})
}

type applyTemplateRequest struct {
	StartDate civil.Date `json:"start_date"`
}

type templatesResponse struct {
	Groups []templates.Group `json:"groups"`
}

type categoryDTO struct {
	Key         calendar.Category `json:"key"`
	Label       string            `json:"label"`
	Domain      calendar.Domain   `json:"domain"`
	DomainLabel string            `json:"domain_label"`
	Color       string            `json:"color"`
}

type categoriesResponse struct {
	Categories []categoryDTO `json:"categories"`
}
