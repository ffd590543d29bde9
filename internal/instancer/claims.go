package instancer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the role asserted to the Instancer.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Token lifetimes.
const (
	UserTokenTTL        = 180 * time.Minute
	AdminTokenTTL       = 120 * time.Minute
	ConfigCheckTokenTTL = 180 * time.Minute
)

// adminSubjectID is the user and team id carried by admin-role tokens.
const adminSubjectID = "0"

// configCheckScope is the challenge name and category of connectivity-check tokens.
const configCheckScope = "config_check"

// Claims is the claim set consumed by the Instancer. Only iat and exp are
// set on the embedded registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string  `json:"user_id"`
	TeamID        *string `json:"team_id"`
	Role          Role    `json:"role"`
	ChallengeName string  `json:"challenge_name"`
	Category      string  `json:"category"`
}

// Subject identifies the player a user token is issued for.
// TeamID is nil when the platform has no team mode or the user has no team.
type Subject struct {
	UserID string
	TeamID *string
}
