package repository

import (
	"context"
	"fmt"

	"tarha-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// profileRepository implements the ProfileRepository interface using PostgreSQL.
type profileRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProfileRepository {
	return &profileRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "profile").Logger(),
	}
}

// Get retrieves a user's profile, or nil when none is saved.
func (r *profileRepository) Get(ctx context.Context, userID string) (*model.Profile, error) {
	query := `
		SELECT user_id, name, phone, region, city, street, details
		FROM profiles
		WHERE user_id = $1
	`

	var p model.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Phone, &p.Region, &p.City, &p.Street, &p.Details)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query profile")
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return &p, nil
}

// SaveAddress upserts the user's saved shipping address.
func (r *profileRepository) SaveAddress(ctx context.Context, userID string, addr model.Address) error {
	query := `
		INSERT INTO profiles (user_id, name, phone, region, city, street, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET name = EXCLUDED.name, phone = EXCLUDED.phone,
			region = EXCLUDED.region, city = EXCLUDED.city,
			street = EXCLUDED.street, details = EXCLUDED.details
	`

	_, err := r.pool.Exec(ctx, query, userID,
		addr.Name, addr.Phone, addr.Region, addr.City, addr.Street, addr.Details)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save address")
		return fmt.Errorf("failed to save address: %w", err)
	}

	return nil
}
