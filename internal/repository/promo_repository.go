package repository

import (
	"context"
	"fmt"

	"tarha-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// promoRepository implements the PromoRepository interface using PostgreSQL.
type promoRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromoRepository creates a new PostgreSQL-backed promotion repository.
func NewPromoRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromoRepository {
	return &promoRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promo").Logger(),
	}
}

// GetByCode retrieves a promotion by its canonical code. Returns nil when no
// record matches.
func (r *promoRepository) GetByCode(ctx context.Context, code string) (*model.Promotion, error) {
	query := `
		SELECT code, type, value, max_discount, active, expires_at,
		       first_order_only, usage_count, usage_limit
		FROM promotions
		WHERE code = $1
	`

	var p model.Promotion
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&p.Code, &p.Type, &p.Value, &p.MaxDiscount, &p.Active,
		&p.ExpiresAt, &p.FirstOrderOnly, &p.UsageCount, &p.UsageLimit)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("promotion not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query promotion")
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}

	return &p, nil
}

// IncrementUsage bumps the usage counter by one, guarded by the usage limit.
// Check and increment are one statement, so concurrent redemptions cannot
// push the counter past the cap; the loser sees false.
func (r *promoRepository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE promotions
		SET usage_count = usage_count + 1
		WHERE code = $1 AND usage_count < usage_limit
	`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment promotion usage")
		return false, fmt.Errorf("failed to increment promotion usage: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("code", code).Msg("promotion usage limit reached")
		return false, nil
	}

	return true, nil
}
