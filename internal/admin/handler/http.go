// Package handler serves the administrator namespace: Instancer tokens, configuration and dashboard pages.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/audit"
	"zync/backend/internal/instancer"
	"zync/backend/internal/server/middleware"
	"zync/backend/internal/server/respond"
	configdomain "zync/backend/internal/zyncconfig/domain"
)

const (
	errNotConfigured    = "Zync not configured"
	errMissingParams    = "Missing category or challenge_name"
	errChallengeMissing = "Challenge not found"
	errInternal         = "internal error"

	msgSaved         = "Instancer configuration saved"
	msgInvalidSecret = "Invalid Instancer Secret"
	msgRoleRejected  = "Token role is incorrect, what have we done?"
	msgInvalidURL    = "Invalid Instancer URL or Secret"
	msgSaveFailed    = "Failed to save Instancer configuration"
)

// Form fields of the configuration page.
const (
	formDeployerURL = "deployer_url"
	formJWTSecret   = "jwt_secret"
)

// ConfigStore reads and merges the Instancer configuration.
type ConfigStore interface {
	Get(ctx context.Context) (*configdomain.Config, error)
	Save(ctx context.Context, u configdomain.Update) (*configdomain.Config, error)
}

// TokenIssuer signs the admin-role tokens.
type TokenIssuer interface {
	IssueAdminDashboardToken(ctx context.Context, cfg *configdomain.Config) (string, error)
	IssueAdminStatusToken(ctx context.Context, cfg *configdomain.Config, category, challengeName string) (string, int64, error)
	IssueConnectivityCheckToken(ctx context.Context, cfg *configdomain.Config) (string, error)
}

// ConnectivityChecker asks an Instancer whether it accepts a token.
type ConnectivityChecker interface {
	Check(ctx context.Context, deployerURL, token string) error
}

// Handler serves the admin routes.
type Handler struct {
	config   ConfigStore
	issuer   TokenIssuer
	checker  ConnectivityChecker
	renderer PageRenderer
	audit    audit.AuditLogger
	log      hclog.Logger
}

// NewHandler returns an admin handler. renderer defaults to JSONRenderer; auditLogger and log may be nil.
func NewHandler(config ConfigStore, issuer TokenIssuer, checker ConnectivityChecker, renderer PageRenderer, auditLogger audit.AuditLogger, log hclog.Logger) *Handler {
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	if auditLogger == nil {
		auditLogger = audit.Nop()
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Handler{
		config:   config,
		issuer:   issuer,
		checker:  checker,
		renderer: renderer,
		audit:    auditLogger,
		log:      log.Named("admin"),
	}
}

// Routes mounts the handler's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/zync_token", h.DashboardToken)
	r.Post("/zync_status_token", h.StatusToken)
	r.Get("/zync_config", h.ConfigPage)
	r.Post("/zync_config", h.SaveConfig)
	r.Get("/zync_dashboard", h.DashboardPage)
}

type dashboardTokenResponse struct {
	Token  string `json:"token"`
	APIURL string `json:"api_url"`
}

type statusTokenRequest struct {
	Category      string `json:"category"`
	ChallengeName string `json:"challenge_name"`
}

type statusTokenResponse struct {
	Token       string `json:"token"`
	ChallengeID int64  `json:"challenge_id"`
}

// DashboardToken issues the admin token the Instancer dashboard authenticates with.
func (h *Handler) DashboardToken(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.loadConfig(w, r)
	if !ok {
		return
	}
	token, err := h.issuer.IssueAdminDashboardToken(r.Context(), cfg)
	if err != nil {
		h.writeIssueError(w, err)
		return
	}
	h.audit.LogEvent(r.Context(), callerID(r), audit.ActionTokenIssued, instancer.KindDashboard, "")
	respond.JSON(w, http.StatusOK, dashboardTokenResponse{Token: token, APIURL: cfg.DeployerURL})
}

// StatusToken issues an admin token scoped to one challenge, found by exact category and name.
func (h *Handler) StatusToken(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.loadConfig(w, r)
	if !ok {
		return
	}
	if !cfg.HasSecret() {
		respond.Error(w, http.StatusInternalServerError, errNotConfigured)
		return
	}
	var req statusTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, errMissingParams)
		return
	}
	token, challengeID, err := h.issuer.IssueAdminStatusToken(r.Context(), cfg, req.Category, req.ChallengeName)
	if err != nil {
		h.writeIssueError(w, err)
		return
	}
	h.audit.LogEvent(r.Context(), callerID(r), audit.ActionTokenIssued, instancer.KindStatus,
		fmt.Sprintf(`{"challenge_id":%d}`, challengeID))
	respond.JSON(w, http.StatusOK, statusTokenResponse{Token: token, ChallengeID: challengeID})
}

// ConfigPage renders the configuration form with the stored URL. The secret is never echoed.
func (h *Handler) ConfigPage(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get(r.Context())
	if err != nil {
		h.log.Error("load configuration", "error", err)
		h.renderer.Render(w, r, http.StatusInternalServerError, Page{Template: TemplateConfig, Error: errInternal})
		return
	}
	h.renderer.Render(w, r, http.StatusOK, configPage(cfg))
}

// SaveConfig verifies the submitted configuration against the Instancer and persists it only on success.
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, Page{Template: TemplateConfig, Error: msgInvalidURL})
		return
	}
	update := formUpdate(r)

	stored, err := h.config.Get(ctx)
	if err != nil {
		h.log.Error("load configuration", "error", err)
		h.renderer.Render(w, r, http.StatusInternalServerError, Page{Template: TemplateConfig, Error: errInternal})
		return
	}
	candidate := configdomain.Merge(stored, update)

	if err := h.verify(ctx, &candidate); err != nil {
		reason := rejectionMessage(err)
		h.log.Warn("instancer rejected configuration", "deployer_url", candidate.DeployerURL, "error", err)
		h.audit.LogEvent(ctx, callerID(r), audit.ActionConfigRejected, audit.ResourceConfig, auditMetadata(candidate.DeployerURL, reason))
		page := configPage(stored)
		page.Error = reason
		h.renderer.Render(w, r, http.StatusOK, page)
		return
	}

	// Persist the verified pair, not a re-merge over whatever was stored meanwhile.
	saved, err := h.config.Save(ctx, configdomain.Update{DeployerURL: &candidate.DeployerURL, JWTSecret: &candidate.JWTSecret})
	if err != nil {
		h.log.Error("save configuration", "error", err)
		page := configPage(stored)
		page.Error = msgSaveFailed
		h.renderer.Render(w, r, http.StatusInternalServerError, page)
		return
	}
	h.audit.LogEvent(ctx, callerID(r), audit.ActionConfigSaved, audit.ResourceConfig, auditMetadata(saved.DeployerURL, ""))
	page := configPage(saved)
	page.Message = msgSaved
	h.renderer.Render(w, r, http.StatusOK, page)
}

// DashboardPage renders the Instancer dashboard shell; the page fetches its token from /admin/zync_token.
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get(r.Context())
	if err != nil {
		h.log.Error("load configuration", "error", err)
		h.renderer.Render(w, r, http.StatusInternalServerError, Page{Template: TemplateDashboard, Error: errInternal})
		return
	}
	page := Page{Template: TemplateDashboard, Data: map[string]interface{}{
		"deployer_url": "",
		"configured":   cfg.HasSecret() && cfg.HasDeployerURL(),
	}}
	if cfg != nil {
		page.Data["deployer_url"] = cfg.DeployerURL
	}
	if !cfg.HasSecret() || !cfg.HasDeployerURL() {
		page.Error = errNotConfigured
	}
	h.renderer.Render(w, r, http.StatusOK, page)
}

// verify mints a connectivity-check token with the candidate secret and presents it to the candidate URL.
func (h *Handler) verify(ctx context.Context, candidate *configdomain.Config) error {
	token, err := h.issuer.IssueConnectivityCheckToken(ctx, candidate)
	if err != nil {
		return err
	}
	return h.checker.Check(ctx, candidate.DeployerURL, token)
}

func (h *Handler) loadConfig(w http.ResponseWriter, r *http.Request) (*configdomain.Config, bool) {
	cfg, err := h.config.Get(r.Context())
	if err != nil {
		h.log.Error("load configuration", "error", err)
		respond.Error(w, http.StatusInternalServerError, errInternal)
		return nil, false
	}
	return cfg, true
}

func (h *Handler) writeIssueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, instancer.ErrNotConfigured):
		respond.Error(w, http.StatusInternalServerError, errNotConfigured)
	case errors.Is(err, instancer.ErrBadRequest):
		respond.Error(w, http.StatusBadRequest, errMissingParams)
	case errors.Is(err, instancer.ErrChallengeNotFound):
		respond.Error(w, http.StatusNotFound, errChallengeMissing)
	default:
		h.log.Error("issue admin token", "error", err)
		respond.Error(w, http.StatusInternalServerError, errInternal)
	}
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, instancer.ErrInvalidSecret):
		return msgInvalidSecret
	case errors.Is(err, instancer.ErrRoleRejected):
		return msgRoleRejected
	default:
		return msgInvalidURL
	}
}

// formUpdate returns the non-blank submitted fields. Omitted or blank fields keep their stored value.
// The secret is kept byte for byte; only the URL is trimmed.
func formUpdate(r *http.Request) configdomain.Update {
	var u configdomain.Update
	if v := strings.TrimSpace(r.PostFormValue(formDeployerURL)); v != "" {
		u.DeployerURL = &v
	}
	if v := r.PostFormValue(formJWTSecret); strings.TrimSpace(v) != "" {
		u.JWTSecret = &v
	}
	return u
}

func configPage(cfg *configdomain.Config) Page {
	data := map[string]interface{}{
		formDeployerURL:  "",
		"jwt_secret_set": cfg.HasSecret(),
	}
	if cfg != nil {
		data[formDeployerURL] = cfg.DeployerURL
	}
	return Page{Template: TemplateConfig, Data: data}
}

func auditMetadata(deployerURL, reason string) string {
	b, _ := json.Marshal(map[string]string{"deployer_url": deployerURL, "reason": reason})
	return string(b)
}

func callerID(r *http.Request) string {
	if id, ok := middleware.IdentityFrom(r.Context()); ok {
		return id.UserID
	}
	return ""
}
