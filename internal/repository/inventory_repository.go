package repository

import (
	"context"
	"fmt"

	"tarha-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inventoryRepository implements the InventoryRepository interface using PostgreSQL.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *inventoryRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// GetStock returns the current stock of a product.
func (r *inventoryRepository) GetStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := r.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query stock")
		return 0, fmt.Errorf("failed to query stock: %w", err)
	}
	return stock, nil
}

// ReserveStock decrements stock by qty when at least minStock units remain.
// The guard and the write are a single statement, so a concurrent reservation
// can never oversell the product.
func (r *inventoryRepository) ReserveStock(ctx context.Context, tx pgx.Tx, productID string, qty, minStock int) error {
	if minStock < qty {
		minStock = qty
	}

	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $3
	`, productID, qty, minStock)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID).
			Int("quantity", qty).
			Msg("failed to reserve stock")
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("product_id", productID).
			Int("quantity", qty).
			Msg("stock reservation rejected")
		return model.ErrOutOfStock
	}

	return nil
}

// RestoreStock increments stock by qty.
func (r *inventoryRepository) RestoreStock(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	_, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2
		WHERE id = $1
	`, productID, qty)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID).
			Int("quantity", qty).
			Msg("failed to restore stock")
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	return nil
}
