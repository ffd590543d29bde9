// Package security verifies identity assertions issued by the host platform.
package security

import (
	"crypto"
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidIdentity is returned when a host identity assertion is malformed, expired, or untrusted.
var ErrInvalidIdentity = errors.New("invalid identity assertion")

// HostClaims is the assertion the host platform forwards for an authenticated session.
// Subject is the user id. TeamID is absent when the platform has no team mode or the user has no team.
type HostClaims struct {
	jwt.RegisteredClaims
	TeamID *string `json:"team_id,omitempty"`
	Admin  bool    `json:"admin"`
}

// Identity is the caller as established by the host.
type Identity struct {
	UserID string
	TeamID *string
	Admin  bool
}

// IdentityVerifier validates host assertions signed with the host's RS256 or ES256 key.
type IdentityVerifier struct {
	publicKey crypto.PublicKey
	issuer    string
	audience  string
}

// NewIdentityVerifier returns a verifier that accepts assertions signed by publicKey for issuer and audience.
func NewIdentityVerifier(publicKey crypto.PublicKey, issuer, audience string) *IdentityVerifier {
	return &IdentityVerifier{publicKey: publicKey, issuer: issuer, audience: audience}
}

// Verify parses and validates the assertion (signature, exp, iss, aud, sub) and returns the caller identity.
func (v *IdentityVerifier) Verify(tokenString string) (*Identity, error) {
	method := SigningMethodFor(v.publicKey)
	if method == nil {
		return nil, ErrInvalidIdentity
	}
	claims := &HostClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	},
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidIdentity
	}
	if claims.Subject == "" || !slices.Contains(claims.Audience, v.audience) {
		return nil, ErrInvalidIdentity
	}
	return &Identity{UserID: claims.Subject, TeamID: claims.TeamID, Admin: claims.Admin}, nil
}
