package repository

import (
	"context"
	"sync"

	"zync/backend/internal/audit/domain"
)

// MemoryRepository keeps the most recent audit logs in process. Used when no database is configured.
type MemoryRepository struct {
	mu      sync.Mutex
	limit   int
	entries []domain.AuditLog
}

// DefaultMemoryLimit bounds the entries a MemoryRepository retains.
const DefaultMemoryLimit = 1000

// NewMemoryRepository returns an empty in-memory repository retaining DefaultMemoryLimit entries.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{limit: DefaultMemoryLimit}
}

// Create appends a, dropping the oldest entry once the limit is reached.
func (r *MemoryRepository) Create(_ context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) >= r.limit {
		r.entries = r.entries[1:]
	}
	r.entries = append(r.entries, *a)
	return nil
}

// Len returns the number of retained entries.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
