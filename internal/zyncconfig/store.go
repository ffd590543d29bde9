// Package zyncconfig stores the singleton Instancer configuration and applies the startup env override.
package zyncconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/zyncconfig/domain"
	"zync/backend/internal/zyncconfig/repository"
)

// Store reads and merges the singleton configuration through a Repository.
// Concurrent saves are last-writer-wins.
type Store struct {
	repo repository.Repository
	log  hclog.Logger
}

// NewStore returns a Store over repo. log may be nil.
func NewStore(repo repository.Repository, log hclog.Logger) *Store {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Store{repo: repo, log: log.Named("config")}
}

// Get returns the stored configuration, or nil if it has never been saved.
func (s *Store) Get(ctx context.Context) (*domain.Config, error) {
	c, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("zyncconfig: get: %w", err)
	}
	return c, nil
}

// Save merges u into the stored record, creating it if absent, and returns the persisted result.
func (s *Store) Save(ctx context.Context, u domain.Update) (*domain.Config, error) {
	stored, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	merged := domain.Merge(stored, u)
	if err := s.repo.Put(ctx, &merged); err != nil {
		return nil, fmt.Errorf("zyncconfig: put: %w", err)
	}
	return &merged, nil
}

// ApplyOverride writes the environment-supplied fields over the stored record.
// Call once at startup before serving; an empty override leaves storage untouched.
func (s *Store) ApplyOverride(ctx context.Context, u domain.Update) (*domain.Config, error) {
	if u.IsEmpty() {
		return s.Get(ctx)
	}
	c, err := s.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("applied environment override",
		"deployer_url", u.DeployerURL != nil,
		"jwt_secret", u.JWTSecret != nil)
	return c, nil
}
