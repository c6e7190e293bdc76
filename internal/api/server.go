package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures middleware around the API routes
type RouterOptions struct {
	AllowedOrigins []string
	// RequestLog receives one line per request; nil disables request logging.
	RequestLog middleware.LoggerInterface
}

// NewRouter creates a router with all routes configured
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.RequestLog != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: opts.RequestLog, NoColor: true}))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/pension", h.ComputePension)
	})

	return r
}
