package chi

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kailas-cloud/travelql/internal/metrics"
)

// NewRouter assembles the middleware chain and routes.
func NewRouter(s *Server, apiKeys []string) chi.Router {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get(s.cfg.Path, s.GraphQL)
	r.Post(s.cfg.Path, s.GraphQL)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", metrics.Handler())

	return r
}
