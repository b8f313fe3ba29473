package repository

import (
	"context"
	"fmt"

	"tarha-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *cartRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetItems retrieves all cart lines for a user, oldest first.
func (r *cartRepository) GetItems(ctx context.Context, userID string) ([]model.LineItem, error) {
	query := `
		SELECT product_id, variant_key, quantity, price, name, name_ar, image, added_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		var item model.LineItem
		err := rows.Scan(&item.ProductID, &item.VariantKey, &item.Quantity,
			&item.Price, &item.Name, &item.NameAr, &item.Image, &item.AddedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetItemForUpdate retrieves one cart line inside the transaction with a row
// lock, so two mutations of the same line serialize on the database.
func (r *cartRepository) GetItemForUpdate(ctx context.Context, tx pgx.Tx, userID, productID, variantKey string) (*model.LineItem, error) {
	query := `
		SELECT product_id, variant_key, quantity, price, name, name_ar, image, added_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND variant_key = $3
		FOR UPDATE
	`

	var item model.LineItem
	err := tx.QueryRow(ctx, query, userID, productID, variantKey).Scan(
		&item.ProductID, &item.VariantKey, &item.Quantity,
		&item.Price, &item.Name, &item.NameAr, &item.Image, &item.AddedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return &item, nil
}

// UpsertItem inserts a new line or replaces the quantity of an existing one.
// The price snapshot is only written on insert; it never moves afterwards.
func (r *cartRepository) UpsertItem(ctx context.Context, tx pgx.Tx, userID string, item model.LineItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, variant_key, quantity, price, name, name_ar, image, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, product_id, variant_key)
		DO UPDATE SET quantity = EXCLUDED.quantity
	`

	_, err := tx.Exec(ctx, query, userID, item.ProductID, item.VariantKey,
		item.Quantity, item.Price, item.Name, item.NameAr, item.Image, item.AddedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", item.ProductID).
			Str("variant_key", item.VariantKey).
			Msg("failed to upsert cart item")
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

// DeleteItem removes one line. Deleting an absent line is not an error.
func (r *cartRepository) DeleteItem(ctx context.Context, tx pgx.Tx, userID, productID, variantKey string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND variant_key = $3
	`

	_, err := tx.Exec(ctx, query, userID, productID, variantKey)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to delete cart item")
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

// DeleteAll removes every line in the user's cart.
func (r *cartRepository) DeleteAll(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
