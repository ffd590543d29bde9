package repository

import (
	"context"
	"database/sql"
	"errors"

	"zync/backend/internal/zyncconfig/domain"
)

const (
	getConfigQuery = `SELECT deployer_url, deployer_secret FROM zync_config WHERE id = $1`
	putConfigQuery = `INSERT INTO zync_config (id, deployer_url, deployer_secret) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET deployer_url = EXCLUDED.deployer_url, deployer_secret = EXCLUDED.deployer_secret`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a config repository backed by the zync_config table.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the singleton configuration, or nil if the row does not exist.
func (r *PostgresRepository) Get(ctx context.Context) (*domain.Config, error) {
	var url, secret sql.NullString
	err := r.db.QueryRowContext(ctx, getConfigQuery, domain.SingletonID).Scan(&url, &secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.Config{DeployerURL: url.String, JWTSecret: secret.String}, nil
}

// Put upserts the singleton row. Empty fields are stored as NULL.
func (r *PostgresRepository) Put(ctx context.Context, c *domain.Config) error {
	url := sql.NullString{String: c.DeployerURL, Valid: c.DeployerURL != ""}
	secret := sql.NullString{String: c.JWTSecret, Valid: c.JWTSecret != ""}
	_, err := r.db.ExecContext(ctx, putConfigQuery, domain.SingletonID, url, secret)
	return err
}
