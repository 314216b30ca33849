package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig wires handlers and middleware. Nil handlers leave their
// routes unregistered.
type RouterConfig struct {
	Events      *EventHandler
	Suggestions *SuggestionHandler
	Catalog     *CatalogHandler
	Auth        Authenticator
	Observer    RequestObserver
	Metrics     http.Handler
	Ping        func(ctx context.Context) error
	Logger      *slog.Logger
	Timeout     time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := defaultLogger(cfg.Logger)
	responder := newResponder(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(Instrument(cfg.Observer))
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responder.writeError(req.Context(), w, http.StatusNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responder.writeError(req.Context(), w, http.StatusMethodNotAllowed, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Ping != nil {
			if err := cfg.Ping(req.Context()); err != nil {
				responder.writeError(req.Context(), w, http.StatusServiceUnavailable, err)
				return
			}
		}
		responder.writeJSON(req.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(RequireBasicAuth(cfg.Auth, logger))
		}

		if h := cfg.Events; h != nil {
			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/{id}", h.Get)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
				r.Post("/{id}/complete", h.Complete)
				r.Post("/{id}/next", h.Next)
				r.Get("/{id}/notifications", h.Notifications)
				r.Get("/{id}/occurrences", h.Occurrences)
			})
			r.Get("/views/list", h.ListView)
			r.Get("/views/month", h.MonthView)
			r.Get("/notifications", h.Due)
			r.Get("/calendar.ics", h.Export)
		}

		if h := cfg.Suggestions; h != nil {
			r.Get("/suggestions", h.List)
			r.Post("/suggestions/{key}/accept", h.Accept)
			r.Post("/suggestions/{key}/dismiss", h.Dismiss)
			r.Post("/signals", h.ImportSignals)
		}

		if h := cfg.Catalog; h != nil {
			r.Get("/templates", h.Templates)
			r.Post("/templates/{key}/apply", h.Apply)
			r.Get("/categories", h.Categories)
		}
	})

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}
