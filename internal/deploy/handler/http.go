// Package handler serves the participant-facing deploy namespace.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/audit"
	challengedomain "zync/backend/internal/challenge/domain"
	"zync/backend/internal/instancer"
	"zync/backend/internal/server/middleware"
	"zync/backend/internal/server/respond"
	configdomain "zync/backend/internal/zyncconfig/domain"
)

const (
	msgNotConfigured    = "Instancer not configured"
	msgInvalidChallenge = "Invalid challenge ID"
	msgInternal         = "internal error"
)

// ConfigReader returns the stored Instancer configuration, or nil if none.
type ConfigReader interface {
	Get(ctx context.Context) (*configdomain.Config, error)
}

// ChallengeReader looks up host challenges by id.
type ChallengeReader interface {
	GetByID(ctx context.Context, id int64) (*challengedomain.Challenge, error)
}

// TokenIssuer signs participant tokens.
type TokenIssuer interface {
	IssueUserToken(ctx context.Context, cfg *configdomain.Config, subject instancer.Subject, challenge *challengedomain.Challenge) (string, error)
	DeployerURL(cfg *configdomain.Config) (string, error)
}

// Handler serves POST /token and GET /url under the deploy mount.
type Handler struct {
	config     ConfigReader
	challenges ChallengeReader
	issuer     TokenIssuer
	audit      audit.AuditLogger
	log        hclog.Logger
}

// NewHandler returns a deploy handler. auditLogger and log may be nil.
func NewHandler(config ConfigReader, challenges ChallengeReader, issuer TokenIssuer, auditLogger audit.AuditLogger, log hclog.Logger) *Handler {
	if auditLogger == nil {
		auditLogger = audit.Nop()
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Handler{config: config, challenges: challenges, issuer: issuer, audit: auditLogger, log: log.Named("deploy")}
}

// Routes mounts the handler's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/token", h.Token)
	r.Get("/url", h.URL)
}

type tokenRequest struct {
	ChallengeID *int64 `json:"challenge_id"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type urlResponse struct {
	DeployerURL string `json:"deployer_url"`
}

// Token issues a user token for the caller scoped to the requested challenge.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChallengeID == nil {
		respond.Message(w, http.StatusBadRequest, msgInvalidChallenge)
		return
	}

	cfg, err := h.config.Get(r.Context())
	if err != nil {
		h.log.Error("load configuration", "error", err)
		respond.Message(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if !cfg.HasSecret() {
		respond.Message(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	challenge, err := h.challenges.GetByID(r.Context(), *req.ChallengeID)
	if err != nil {
		h.log.Error("look up challenge", "challenge_id", *req.ChallengeID, "error", err)
		respond.Message(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if challenge == nil {
		respond.Message(w, http.StatusBadRequest, msgInvalidChallenge)
		return
	}

	token, err := h.issuer.IssueUserToken(r.Context(), cfg, instancer.Subject{UserID: id.UserID, TeamID: id.TeamID}, challenge)
	switch {
	case errors.Is(err, instancer.ErrNotConfigured):
		respond.Message(w, http.StatusInternalServerError, msgNotConfigured)
		return
	case errors.Is(err, instancer.ErrChallengeNotFound):
		respond.Message(w, http.StatusBadRequest, msgInvalidChallenge)
		return
	case err != nil:
		h.log.Error("issue user token", "error", err)
		respond.Message(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.audit.LogEvent(r.Context(), id.UserID, audit.ActionTokenIssued, instancer.KindUser,
		fmt.Sprintf(`{"challenge_id":%d}`, challenge.ID))
	respond.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

// URL returns the configured Instancer base URL.
func (h *Handler) URL(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get(r.Context())
	if err != nil {
		h.log.Error("load configuration", "error", err)
		respond.Message(w, http.StatusInternalServerError, msgInternal)
		return
	}
	url, err := h.issuer.DeployerURL(cfg)
	if err != nil {
		respond.Message(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}
	respond.JSON(w, http.StatusOK, urlResponse{DeployerURL: url})
}
