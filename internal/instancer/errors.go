package instancer

import "errors"

var (
	// ErrNotConfigured is returned when no configuration is stored or a required field is empty.
	ErrNotConfigured = errors.New("instancer not configured")
	// ErrBadRequest is returned when a required input is missing.
	ErrBadRequest = errors.New("missing category or challenge_name")
	// ErrChallengeNotFound is returned when the referenced challenge does not exist.
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrInvalidSecret is returned when the Instancer rejects the token signature (401).
	ErrInvalidSecret = errors.New("instancer rejected the secret")
	// ErrRoleRejected is returned when the Instancer rejects the token role (403).
	ErrRoleRejected = errors.New("instancer rejected the token role")
	// ErrUnreachable is returned for network failures and unexpected statuses.
	ErrUnreachable = errors.New("instancer unreachable")
)
