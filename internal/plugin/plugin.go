// Package plugin wires the Instancer bridge into a host platform.
package plugin

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	adminhandler "zync/backend/internal/admin/handler"
	"zync/backend/internal/audit"
	"zync/backend/internal/challenge"
	challengerepo "zync/backend/internal/challenge/repository"
	deployhandler "zync/backend/internal/deploy/handler"
	"zync/backend/internal/instancer"
	"zync/backend/internal/policy/engine"
	"zync/backend/internal/server/respond"
	"zync/backend/internal/zyncconfig"
)

// Mount points of the plugin namespaces.
const (
	AdminPrefix  = "/admin"
	DeployPrefix = "/deploy"
	PluginPrefix = "/plugins/zync"
)

// Host is what the plugin needs from the platform it is loaded into.
type Host interface {
	RegisterChallengeType(t challenge.Type) error
	ChallengeType(id string) (challenge.Type, bool)
	// Mount routes prefix to fn's sub-router behind host authentication and the policy for audience.
	Mount(prefix string, audience engine.Audience, fn func(chi.Router))
}

// Deps holds the plugin's collaborators. Renderer, Audit and Log may be nil.
type Deps struct {
	Config     *zyncconfig.Store
	Challenges challengerepo.Repository
	Checker    adminhandler.ConnectivityChecker
	Renderer   adminhandler.PageRenderer
	Audit      audit.AuditLogger
	Log        hclog.Logger
}

// Load registers the zync challenge type and mounts the admin, deploy and plugin namespaces on host.
func Load(host Host, deps Deps) error {
	if deps.Config == nil || deps.Challenges == nil {
		return fmt.Errorf("plugin: config store and challenge repository are required")
	}
	if deps.Checker == nil {
		deps.Checker = instancer.NewChecker(instancer.DefaultCheckTimeout)
	}
	if deps.Log == nil {
		deps.Log = hclog.NewNullLogger()
	}
	log := deps.Log.Named("plugin")

	if err := host.RegisterChallengeType(challenge.ZyncType()); err != nil {
		return fmt.Errorf("plugin: register challenge type: %w", err)
	}

	issuer := instancer.NewIssuer(deps.Challenges)
	admin := adminhandler.NewHandler(deps.Config, issuer, deps.Checker, deps.Renderer, deps.Audit, deps.Log)
	deploy := deployhandler.NewHandler(deps.Config, deps.Challenges, issuer, deps.Audit, deps.Log)

	host.Mount(AdminPrefix, engine.AudienceAdmin, admin.Routes)
	host.Mount(DeployPrefix, engine.AudienceUser, deploy.Routes)
	host.Mount(PluginPrefix, engine.AudienceUser, func(r chi.Router) {
		r.Get("/challenge_type", challengeTypeHandler(host))
	})
	log.Info("loaded", "admin", AdminPrefix, "deploy", DeployPrefix)
	return nil
}

func challengeTypeHandler(host Host) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := host.ChallengeType(challenge.ZyncTypeID)
		if !ok {
			respond.Error(w, http.StatusNotFound, "challenge type not registered")
			return
		}
		respond.JSON(w, http.StatusOK, t)
	}
}
