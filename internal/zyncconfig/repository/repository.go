package repository

import (
	"context"

	"zync/backend/internal/zyncconfig/domain"
)

// Repository persists the singleton Instancer configuration.
type Repository interface {
	// Get returns the stored configuration, or nil if none has been saved.
	// It returns an error only for storage failures, not for a missing record.
	Get(ctx context.Context) (*domain.Config, error)
	// Put creates or replaces the singleton record.
	Put(ctx context.Context, c *domain.Config) error
}
