package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"zync/backend/internal/security"
)

const allowQuery = "data.zync.access.allow"

// DefaultPolicy grants user routes to every authenticated caller and admin routes to administrators.
const DefaultPolicy = `package zync.access

default allow := false

allow if {
	input.audience == "user"
	input.identity.user_id != ""
}

allow if {
	input.audience == "admin"
	input.identity.user_id != ""
	input.identity.admin
}
`

// OPAEvaluator evaluates route access with a prepared Rego query.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles DefaultPolicy.
func NewOPAEvaluator(ctx context.Context) (*OPAEvaluator, error) {
	return NewOPAEvaluatorWithPolicy(ctx, DefaultPolicy)
}

// NewOPAEvaluatorWithPolicy compiles module, which must define data.zync.access.allow.
func NewOPAEvaluatorWithPolicy(ctx context.Context, module string) (*OPAEvaluator, error) {
	q, err := rego.New(
		rego.Query(allowQuery),
		rego.Module("access.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile access policy: %w", err)
	}
	return &OPAEvaluator{query: q}, nil
}

// Allow returns false without evaluating when id is nil.
func (e *OPAEvaluator) Allow(ctx context.Context, audience Audience, id *security.Identity) (bool, error) {
	if id == nil {
		return false, nil
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(buildInput(audience, id)))
	if err != nil {
		return false, fmt.Errorf("eval access policy: %w", err)
	}
	return rs.Allowed(), nil
}

// HealthCheck evaluates the prepared query against a fixed admin identity.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	ok, err := e.Allow(ctx, AudienceAdmin, &security.Identity{UserID: "healthcheck", Admin: true})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("policy query denied health probe")
	}
	return nil
}

func buildInput(audience Audience, id *security.Identity) map[string]interface{} {
	identity := map[string]interface{}{
		"user_id": id.UserID,
		"team_id": nil,
		"admin":   id.Admin,
	}
	if id.TeamID != nil {
		identity["team_id"] = *id.TeamID
	}
	return map[string]interface{}{
		"audience": string(audience),
		"identity": identity,
	}
}
