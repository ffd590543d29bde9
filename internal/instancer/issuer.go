// Package instancer mints the HS256 tokens the Instancer accepts and probes Instancer connectivity.
package instancer

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	challengedomain "zync/backend/internal/challenge/domain"
	configdomain "zync/backend/internal/zyncconfig/domain"
)

const instrumentationName = "zync/backend/internal/instancer"

// Token kinds, used as the "kind" attribute on spans and the issued-token counter.
const (
	KindUser        = "user"
	KindDashboard   = "admin_dashboard"
	KindStatus      = "admin_status"
	KindConfigCheck = "config_check"
)

// ChallengeFinder looks up a challenge by exact name and category.
type ChallengeFinder interface {
	FindByNameAndCategory(ctx context.Context, name, category string) (*challengedomain.Challenge, error)
}

// grant parameterizes one token. Every token kind is built from a grant.
type grant struct {
	kind          string
	role          Role
	userID        string
	teamID        *string
	challengeName string
	category      string
	ttl           time.Duration
}

// Issuer builds and signs Instancer tokens. It holds no mutable state and is safe for concurrent use.
type Issuer struct {
	challenges ChallengeFinder
	nowF       func() time.Time
	tracer     trace.Tracer
	issued     metric.Int64Counter
}

// NewIssuer returns an Issuer that resolves status-token challenges through challenges.
func NewIssuer(challenges ChallengeFinder) *Issuer {
	issued, err := otel.Meter(instrumentationName).Int64Counter("zync.tokens.issued",
		metric.WithDescription("Instancer tokens signed, by kind"))
	if err != nil {
		otel.Handle(err)
	}
	return &Issuer{
		challenges: challenges,
		nowF:       time.Now,
		tracer:     otel.Tracer(instrumentationName),
		issued:     issued,
	}
}

// IssueUserToken issues a user-role token scoped to challenge for subject.
func (i *Issuer) IssueUserToken(ctx context.Context, cfg *configdomain.Config, subject Subject, challenge *challengedomain.Challenge) (string, error) {
	if !cfg.HasSecret() {
		return "", ErrNotConfigured
	}
	if challenge == nil {
		return "", ErrChallengeNotFound
	}
	return i.issue(ctx, cfg, grant{
		kind:          KindUser,
		role:          RoleUser,
		userID:        subject.UserID,
		teamID:        subject.TeamID,
		challengeName: challenge.Name,
		category:      challenge.Category,
		ttl:           UserTokenTTL,
	})
}

// IssueAdminDashboardToken issues an unscoped admin token for the Instancer dashboard.
// Both the secret and the deployer URL must be configured.
func (i *Issuer) IssueAdminDashboardToken(ctx context.Context, cfg *configdomain.Config) (string, error) {
	if !cfg.HasDeployerURL() {
		return "", ErrNotConfigured
	}
	return i.issue(ctx, cfg, adminGrant(KindDashboard, "", "", AdminTokenTTL))
}

// IssueAdminStatusToken issues an admin token scoped to the challenge matching (category, challengeName)
// and returns it with the challenge id.
func (i *Issuer) IssueAdminStatusToken(ctx context.Context, cfg *configdomain.Config, category, challengeName string) (string, int64, error) {
	if !cfg.HasSecret() {
		return "", 0, ErrNotConfigured
	}
	if category == "" || challengeName == "" {
		return "", 0, ErrBadRequest
	}
	c, err := i.challenges.FindByNameAndCategory(ctx, challengeName, category)
	if err != nil {
		return "", 0, fmt.Errorf("instancer: find challenge: %w", err)
	}
	if c == nil {
		return "", 0, ErrChallengeNotFound
	}
	token, err := i.issue(ctx, cfg, adminGrant(KindStatus, challengeName, category, AdminTokenTTL))
	if err != nil {
		return "", 0, err
	}
	return token, c.ID, nil
}

// IssueConnectivityCheckToken issues the admin token presented to the Instancer's config check.
func (i *Issuer) IssueConnectivityCheckToken(ctx context.Context, cfg *configdomain.Config) (string, error) {
	return i.issue(ctx, cfg, adminGrant(KindConfigCheck, configCheckScope, configCheckScope, ConfigCheckTokenTTL))
}

// DeployerURL returns the configured Instancer URL. cfg must be non-nil.
func (i *Issuer) DeployerURL(cfg *configdomain.Config) (string, error) {
	if cfg == nil {
		return "", ErrNotConfigured
	}
	return cfg.DeployerURL, nil
}

func adminGrant(kind, challengeName, category string, ttl time.Duration) grant {
	team := adminSubjectID
	return grant{
		kind:          kind,
		role:          RoleAdmin,
		userID:        adminSubjectID,
		teamID:        &team,
		challengeName: challengeName,
		category:      category,
		ttl:           ttl,
	}
}

func (i *Issuer) issue(ctx context.Context, cfg *configdomain.Config, g grant) (string, error) {
	_, span := i.tracer.Start(ctx, "instancer.issue", trace.WithAttributes(
		attribute.String("kind", g.kind),
		attribute.String("role", string(g.role)),
	))
	defer span.End()

	if !cfg.HasSecret() {
		span.SetStatus(codes.Error, ErrNotConfigured.Error())
		return "", ErrNotConfigured
	}
	token, err := sign(newClaims(g, i.nowF()), cfg.JWTSecret)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sign failed")
		return "", fmt.Errorf("instancer: sign: %w", err)
	}
	if i.issued != nil {
		i.issued.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", g.kind)))
	}
	return token, nil
}

func newClaims(g grant, now time.Time) Claims {
	now = now.UTC()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		UserID:        g.userID,
		TeamID:        g.teamID,
		Role:          g.role,
		ChallengeName: g.challengeName,
		Category:      g.category,
	}
}

func sign(claims Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
