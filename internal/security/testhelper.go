package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Test issuer and audience used by NewTestHostSigner. For unit tests only.
const (
	TestHostIssuer   = "test-host"
	TestHostAudience = "test-zync"
)

// TestHostSigner signs host identity assertions with a throwaway P-256 key.
// For unit tests only. Callers must not use in production.
type TestHostSigner struct {
	key          *ecdsa.PrivateKey
	PublicKeyPEM string
}

// NewTestHostSigner generates a fresh key pair.
func NewTestHostSigner() (*TestHostSigner, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return &TestHostSigner{key: key, PublicKeyPEM: string(pubPEM)}, nil
}

// PublicKey returns the verification key.
func (s *TestHostSigner) PublicKey() crypto.PublicKey {
	return &s.key.PublicKey
}

// Verifier returns an IdentityVerifier trusting this signer for TestHostIssuer and TestHostAudience.
func (s *TestHostSigner) Verifier() *IdentityVerifier {
	return NewIdentityVerifier(s.PublicKey(), TestHostIssuer, TestHostAudience)
}

// Sign returns an assertion for id valid for ttl.
func (s *TestHostSigner) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := HostClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    TestHostIssuer,
			Audience:  jwt.ClaimStrings{TestHostAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TeamID: id.TeamID,
		Admin:  id.Admin,
	}
	return s.SignClaims(claims)
}

// SignClaims signs arbitrary host claims, for negative tests.
func (s *TestHostSigner) SignClaims(claims HostClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(s.key)
}
