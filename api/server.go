/*
server.go - HTTP router and middleware setup

PURPOSE:
  Configures the chi router: middleware stack, CORS policy, route
  registration, and the public/authenticated split.

MIDDLEWARE STACK (outermost first):
  1. RequestID - tags each request for log correlation
  2. Logger    - request logging
  3. Recoverer - panic recovery -> 500
  4. Metrics   - Prometheus request counting by route pattern
  5. CORS      - cross-origin for browser clients

ROUTES:
  /healthz and /metrics sit at the root, unauthenticated. Everything
  under /api/v1 except auth endpoints requires a bearer token.

SEE ALSO:
  - handlers.go: The handlers registered here
  - middleware.go: RequireAuth token check
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the full route tree around the handler.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.Metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Method("GET", "/metrics", h.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.Tokens))

			r.Get("/scales", h.ListScales)

			r.Route("/contracts", func(r chi.Router) {
				r.Post("/", h.CreateContract)
				r.Get("/", h.ListContracts)
				r.Get("/{id}", h.GetContract)
				r.Put("/{id}/details", h.SaveDetails)
				r.Put("/{id}/engagement", h.SaveEngagement)
				r.Post("/{id}/finalize", h.FinalizeContract)
				r.Post("/{id}/reopen", h.ReopenContract)
				r.Delete("/{id}", h.DeleteContract)
			})
		})
	})

	return r
}
