package repository

import (
	"context"

	"zync/backend/internal/audit/domain"
)

// Repository is the write side of the audit trail. Entries are read back by operators
// from the database or the OTel log pipeline, never by the plugin.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
}
