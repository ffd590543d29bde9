// Package server hosts the bridge: a chi router acting as plugin host, and the gRPC health server.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/challenge"
	"zync/backend/internal/policy/engine"
	"zync/backend/internal/server/middleware"
)

// HealthPath is served without authentication and excluded from access logs.
const HealthPath = "/healthz"

// HTTPHost is the standalone plugin host. It owns the challenge type registry and mounts
// plugin namespaces behind host authentication and the route access policy.
type HTTPHost struct {
	router   chi.Router
	types    *challenge.Registry
	verifier middleware.Verifier
	policy   engine.Evaluator
	log      hclog.Logger
}

// NewHTTPHost returns a host whose mounted namespaces authenticate with verifier and authorize with policy.
func NewHTTPHost(verifier middleware.Verifier, policy engine.Evaluator, log hclog.Logger) *HTTPHost {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientIP)
	r.Use(middleware.AccessLog(log.Named("http"), HealthPath))
	r.Use(chimw.Recoverer)
	return &HTTPHost{
		router:   r,
		types:    challenge.NewRegistry(),
		verifier: verifier,
		policy:   policy,
		log:      log,
	}
}

// RegisterChallengeType adds t to the host registry.
func (h *HTTPHost) RegisterChallengeType(t challenge.Type) error {
	if err := h.types.Register(t); err != nil {
		return err
	}
	h.log.Info("registered challenge type", "id", t.ID)
	return nil
}

// ChallengeType returns the registered type with id.
func (h *HTTPHost) ChallengeType(id string) (challenge.Type, bool) {
	return h.types.Get(id)
}

// Mount routes prefix to fn's sub-router, reachable only by callers the policy admits for audience.
func (h *HTTPHost) Mount(prefix string, audience engine.Audience, fn func(chi.Router)) {
	h.router.Route(prefix, func(r chi.Router) {
		r.Use(middleware.Authenticate(h.verifier, h.log))
		r.Use(middleware.Authorize(h.policy, audience, h.log))
		fn(r)
	})
}

// HandlePublic serves handler at pattern without authentication.
func (h *HTTPHost) HandlePublic(pattern string, handler http.Handler) {
	h.router.Handle(pattern, handler)
}

func (h *HTTPHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}
