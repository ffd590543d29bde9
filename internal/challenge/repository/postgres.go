package repository

import (
	"context"
	"database/sql"
	"errors"

	"zync/backend/internal/challenge/domain"
)

const (
	getChallengeQuery  = `SELECT id, name, category, type FROM challenges WHERE id = $1`
	findChallengeQuery = `SELECT id, name, category, type FROM challenges WHERE name = $1 AND category = $2 ORDER BY id LIMIT 1`
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a challenge directory reading the host's challenges table.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the challenge for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Challenge, error) {
	return scanChallenge(r.db.QueryRowContext(ctx, getChallengeQuery, id))
}

// FindByNameAndCategory returns the lowest-id challenge with the exact name and category, or nil.
func (r *PostgresRepository) FindByNameAndCategory(ctx context.Context, name, category string) (*domain.Challenge, error) {
	return scanChallenge(r.db.QueryRowContext(ctx, findChallengeQuery, name, category))
}

func scanChallenge(row *sql.Row) (*domain.Challenge, error) {
	var c domain.Challenge
	var category, typ sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &category, &typ); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Category = category.String
	c.Type = typ.String
	return &c, nil
}
