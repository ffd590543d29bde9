package repository

import (
	"context"
	"sort"
	"sync"

	"zync/backend/internal/challenge/domain"
)

// MemoryRepository is an in-process challenge directory for standalone runs and tests.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[int64]domain.Challenge
}

// NewMemoryRepository returns a directory seeded with challenges.
func NewMemoryRepository(challenges ...domain.Challenge) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[int64]domain.Challenge, len(challenges))}
	for _, c := range challenges {
		r.byID[c.ID] = c
	}
	return r
}

// Add inserts or replaces c.
func (r *MemoryRepository) Add(c domain.Challenge) {
	r.mu.Lock()
	r.byID[c.ID] = c
	r.mu.Unlock()
}

// GetByID returns the challenge for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// FindByNameAndCategory returns the lowest-id exact match, or nil.
func (r *MemoryRepository) FindByNameAndCategory(ctx context.Context, name, category string) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := r.byID[id]
		if c.Name == name && c.Category == category {
			return &c, nil
		}
	}
	return nil, nil
}
