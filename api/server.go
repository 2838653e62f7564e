/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the scheduling frontend

ROUTE GROUPS:
  /api/workers/*    Worker, document, and week management
  /api/weeks/*      Entries, checks, lifecycle, audit trail
  /api/taskcodes    Task catalog
  /metrics          Prometheus

SECURITY NOTE:
  No authentication middleware. Session handling lives in the gateway
  in front of this service.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Worker routes
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Post("/", h.CreateWorker)
			r.Get("/{id}", h.GetWorker)
			r.Get("/{id}/documents", h.ListDocuments)
			r.Post("/{id}/documents", h.AddDocument)
			r.Get("/{id}/weeks", h.ListWeeks)
			r.Post("/{id}/weeks", h.CreateWeek)
		})

		// Document routes
		r.Route("/documents", func(r chi.Router) {
			r.Post("/{id}/invalidate", h.InvalidateDocument)
		})

		// Task catalog
		r.Get("/taskcodes", h.ListTaskCodes)
		r.Put("/taskcodes", h.PutTaskCode)

		// Week routes
		r.Route("/weeks", func(r chi.Router) {
			r.Get("/{id}", h.GetWeek)
			r.Post("/{id}/entries", h.AddEntry)
			r.Post("/{id}/validate", h.ValidateWeek)
			r.Post("/{id}/submit", h.SubmitWeek)
			r.Post("/{id}/approve", h.ApproveWeek)
			r.Post("/{id}/reject", h.RejectWeek)
			r.Post("/{id}/reopen", h.ReopenWeek)
			r.Get("/{id}/audit", h.GetWeekAudit)
		})

		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Delete("/{id}", h.DeleteEntry)
		})
	})

	// Prometheus
	r.Handle("/metrics", promhttp.Handler())

	return r
}
