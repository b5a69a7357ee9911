package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/crmsearch/internal/domain"
	"github.com/kailas-cloud/crmsearch/internal/logger"
)

// Verifier resolves a bearer token into a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Principal, error)
}

// BearerAuthMiddleware verifies the Bearer token and stores the principal in the context.
func BearerAuthMiddleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthenticated, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					CodeUnauthenticated, "authorization header must use Bearer scheme")
				return
			}

			p, err := v.Verify(r.Context(), strings.TrimSpace(auth[len(bearerPrefix):]))
			if err != nil {
				log := logger.FromContext(r.Context())
				if errors.Is(err, domain.ErrUnauthorized) {
					log.Info("Principal not allowed", zap.Error(err))
					writeError(w, http.StatusForbidden, CodeUnauthorized, "role not allowed")
					return
				}
				log.Info("Token rejected", zap.Error(err))
				writeError(w, http.StatusUnauthorized, CodeUnauthenticated, "invalid token")
				return
			}

			ctx := domain.ContextWithPrincipal(r.Context(), p)
			ctx = logger.With(ctx, zap.String("principal_id", p.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
