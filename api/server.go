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
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zerolog:    Structured request logging
  4. CORS:       Cross-origin requests for the desktop frontend

ROUTE GROUPS:
  /api/{ledger}/*   Parties, items, payments per ledger
  /api/stock/*      Cross-ledger stock projection
  /metrics          Prometheus scrape endpoint
  /healthz          Liveness probe

  The visit and spare-amount endpoints live under /api/service/ only; the
  handlers reject other ledgers.

SECURITY NOTE:
  No authentication middleware. The server binds to localhost for the
  desktop app; do not expose it as-is.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/trackedge/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Cross-ledger stock projection
		r.Get("/stock", h.GetStock)
		r.Get("/stock/oversold", h.GetOversold)

		// Per-ledger routes: {ledger} is purchase, sales, or service.
		// The visit and spare endpoints only answer for the service ledger.
		r.Route("/{ledger}", func(r chi.Router) {
			r.Post("/visits", h.RegisterVisit)

			r.Route("/parties", func(r chi.Router) {
				r.Get("/", h.FindParty)
				r.Post("/", h.CreateParty)
				r.Get("/search", h.SearchParties)
				r.Get("/{id}", h.GetParty)
				r.Put("/{id}/contact", h.UpdateContact)
				r.Get("/{id}/items", h.ListItems)
				r.Post("/{id}/items", h.AddItem)
				r.Get("/{id}/payments", h.ListPayments)
				r.Post("/{id}/payments", h.AddPayment)
				r.Post("/{id}/payments/record", h.RecordPayment)
				r.Post("/{id}/refunds", h.AddRefund)
				r.Get("/{id}/activity", h.ActivityDates)
				r.Post("/{id}/spares", h.AddSpare)
			})

			r.Route("/items", func(r chi.Router) {
				r.Get("/suggest", h.SuggestItems)
				r.Put("/{id}", h.UpdateItem)
				r.Delete("/{id}", h.DeleteItem)
				r.Post("/{id}/return", h.ReturnItem)
			})

			r.Get("/payments/recent", h.RecentPayments)
			r.Get("/report/items", h.ItemsReport)
		})
	})

	// Operational endpoints
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// requestLogger logs one structured line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
