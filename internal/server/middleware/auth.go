// Package middleware holds chi middleware for identity, access policy and request logging.
package middleware

import (
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/policy/engine"
	"zync/backend/internal/security"
	"zync/backend/internal/server/respond"
)

const bearerPrefix = "bearer "

// Verifier validates a host identity assertion.
type Verifier interface {
	Verify(token string) (*security.Identity, error)
}

// Authenticate requires a valid host assertion in the Authorization header and stores the identity in context.
func Authenticate(v Verifier, logger hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				respond.Message(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			id, err := v.Verify(token)
			if err != nil {
				logger.Debug("rejected identity assertion", "path", r.URL.Path, "error", err)
				respond.Message(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Authorize evaluates the access policy for audience. Must run after Authenticate.
func Authorize(e engine.Evaluator, audience engine.Audience, logger hclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				respond.Message(w, http.StatusUnauthorized, "missing or invalid authorization")
				return
			}
			allowed, err := e.Allow(r.Context(), audience, id)
			if err != nil {
				logger.Error("access policy evaluation failed", "audience", audience, "error", err)
				respond.Message(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !allowed {
				respond.Message(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearer returns the Bearer token from r, or "" if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
