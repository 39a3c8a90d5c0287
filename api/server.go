/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/transactions/*   Income/expense records
  /api/odometer/*       Odometer readings
  /api/sessions/*       Work sessions
  /api/profile          Vehicle constants
  /api/metrics/*        Derived metrics
  /api/cycles           Reconciled odometer cycles
  /api/periods/resolve  Period token resolution
  /api/demo/load        Demo data seeding (dev only)

SECURITY NOTE:
  No authentication middleware currently. The store is already scoped to
  one driver; multi-user deployments front this with the hosted auth
  proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.SaveTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/odometer", func(r chi.Router) {
			r.Get("/", h.ListOdometerEvents)
			r.Post("/", h.SaveOdometerEvent)
			r.Delete("/{id}", h.DeleteOdometerEvent)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListWorkSessions)
			r.Post("/", h.SaveWorkSession)
			r.Delete("/{id}", h.DeleteWorkSession)
			r.Get("/segments", h.GetSegments)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.GetProfile)
			r.Put("/", h.SaveProfile)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/", h.GetMetrics)
			r.Get("/comparison", h.GetComparison)
			r.Get("/best-day", h.GetBestDay)
		})

		r.Get("/cycles", h.GetCycles)
		r.Get("/periods/resolve", h.ResolvePeriod)

		r.Post("/demo/load", h.LoadDemoData)
	})

	return r
}
