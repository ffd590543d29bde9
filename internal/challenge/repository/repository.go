package repository

import (
	"context"

	"zync/backend/internal/challenge/domain"
)

// Repository is read access to the host platform's challenge directory.
type Repository interface {
	// GetByID returns the challenge with id, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.Challenge, error)
	// FindByNameAndCategory returns the first challenge matching name and category exactly, or nil.
	FindByNameAndCategory(ctx context.Context, name, category string) (*domain.Challenge, error)
}
