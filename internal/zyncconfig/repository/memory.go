package repository

import (
	"context"
	"sync"

	"zync/backend/internal/zyncconfig/domain"
)

// MemoryRepository keeps the configuration in process memory. Used when no DATABASE_URL is set.
type MemoryRepository struct {
	mu  sync.RWMutex
	cfg *domain.Config
}

// NewMemoryRepository returns an empty in-memory config repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Get returns a copy of the stored configuration, or nil if none was saved.
func (r *MemoryRepository) Get(ctx context.Context) (*domain.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cfg == nil {
		return nil, nil
	}
	c := *r.cfg
	return &c, nil
}

// Put replaces the stored configuration with a copy of c.
func (r *MemoryRepository) Put(ctx context.Context, c *domain.Config) error {
	cp := *c
	r.mu.Lock()
	r.cfg = &cp
	r.mu.Unlock()
	return nil
}
