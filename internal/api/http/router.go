package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the router's handlers.
type RouterConfig struct {
	// Handler serves the SOS and contact endpoints.
	Handler *Handler
	// MetricsHandler serves the Prometheus scrape endpoint; nil disables it.
	MetricsHandler http.Handler
}

// NewRouter creates the chi router with all routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", cfg.Handler.Health)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sos", func(r chi.Router) {
			r.Post("/", cfg.Handler.Trigger)
			r.Post("/location/{key}", cfg.Handler.DeliverLocation)
			r.Get("/status", cfg.Handler.Status)
			r.Post("/reset", cfg.Handler.Reset)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", cfg.Handler.ListContacts)
			r.Post("/", cfg.Handler.AddContact)
		})
	})

	return r
}
