package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gravity-wh/prompt-flow/internal/models"
)

func (s *PostgresStore) CreateProfile(ctx context.Context, username, email, hashedPassword string) (*models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx,
		`INSERT INTO profiles (username, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, email, created_at`,
		username, email, hashedPassword,
	).Scan(&p.ID, &p.Username, &p.Email, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create profile: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, password, created_at FROM profiles WHERE email = $1`, email,
	).Scan(&p.ID, &p.Username, &p.Email, &p.Password, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err, "get profile by email")
	}
	return &p, nil
}

func (s *PostgresStore) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, email, created_at FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Username, &p.Email, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err, "get profile by id")
	}
	return &p, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
