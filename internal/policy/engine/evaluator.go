package engine

import (
	"context"

	"zync/backend/internal/security"
)

// Audience names the class of caller a route is mounted for.
type Audience string

const (
	// AudienceUser routes accept any authenticated participant.
	AudienceUser Audience = "user"
	// AudienceAdmin routes accept only platform administrators.
	AudienceAdmin Audience = "admin"
)

// Evaluator decides whether an identity may reach routes of the given audience.
type Evaluator interface {
	Allow(ctx context.Context, audience Audience, id *security.Identity) (bool, error)
}
