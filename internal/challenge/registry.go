// Package challenge describes challenge types the plugin contributes to the host platform.
package challenge

import (
	"errors"
	"sort"
	"sync"
)

// ZyncTypeID is the challenge type id for Instancer-backed challenges.
const ZyncTypeID = "zync"

const assetsRoute = "/plugins/zync/assets"

// ErrDuplicateType is returned when a type id is registered twice.
var ErrDuplicateType = errors.New("challenge type already registered")

// Type is a challenge type descriptor registered with the host.
// Instance lifecycle for Instancer-backed types is owned by the Instancer, so the host's
// base read/solve/delete behavior applies unchanged.
type Type struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Templates map[string]string `json:"templates"`
	Scripts   map[string]string `json:"scripts"`
	Route     string            `json:"route"`
}

// ZyncType returns the descriptor for Instancer-backed challenges.
func ZyncType() Type {
	return Type{
		ID:   ZyncTypeID,
		Name: ZyncTypeID,
		Templates: map[string]string{
			"create": assetsRoute + "/create.html",
			"update": assetsRoute + "/update.html",
			"view":   assetsRoute + "/view.html",
		},
		Scripts: map[string]string{
			"create": assetsRoute + "/create.js",
			"update": assetsRoute + "/update.js",
			"view":   assetsRoute + "/view.js",
		},
		Route: assetsRoute,
	}
}

// Registry maps type ids to descriptors. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds t. Returns ErrDuplicateType if t.ID is taken.
func (r *Registry) Register(t Type) error {
	if t.ID == "" {
		return errors.New("challenge type id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.ID]; ok {
		return ErrDuplicateType
	}
	r.types[t.ID] = t
	return nil
}

// Get returns the type registered under id.
func (r *Registry) Get(id string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// List returns all registered types sorted by id.
func (r *Registry) List() []Type {
	r.mu.RLock()
	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
