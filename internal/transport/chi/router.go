package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/crmsearch/internal/metrics"
)

// NewRouter mounts the handlers. /health and /metrics bypass authentication.
func NewRouter(s *Server, v Verifier, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(metrics.Middleware())

	r.Get("/health", s.Liveness)
	r.Get("/metrics", s.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(v))
		r.Get("/search", s.Search)
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", s.DashboardSummary)
			r.Get("/health", s.DashboardHealth)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})
	return r
}
