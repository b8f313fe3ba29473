package repository

import (
	"context"

	"tarha-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDTx retrieves a product inside an open transaction. Cart mutations
	// use this so the price snapshot and the stock guard see the same row.
	GetByIDTx(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error)
}

// InventoryRepository defines stock counter access. Stock only moves through
// these operations and never goes below zero.
type InventoryRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetStock returns the current stock of a product.
	GetStock(ctx context.Context, productID string) (int, error)

	// ReserveStock decrements stock by qty within the transaction, guarded so
	// the row is only updated when stock >= minStock. The guard and the write
	// are one statement; stock can never go negative. Returns
	// model.ErrOutOfStock when the guard rejects the decrement.
	ReserveStock(ctx context.Context, tx pgx.Tx, productID string, qty, minStock int) error

	// RestoreStock increments stock by qty within the transaction.
	RestoreStock(ctx context.Context, tx pgx.Tx, productID string, qty int) error
}

// CartRepository defines per-user cart line access. A user's composite
// (product, variant) keys are unique within their cart.
type CartRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetItems retrieves all cart lines for a user, oldest first.
	GetItems(ctx context.Context, userID string) ([]model.LineItem, error)

	// GetItemForUpdate retrieves one cart line inside the transaction, locking
	// it against concurrent mutation. Returns nil when the line is absent.
	GetItemForUpdate(ctx context.Context, tx pgx.Tx, userID, productID, variantKey string) (*model.LineItem, error)

	// UpsertItem inserts a new line or replaces the quantity of an existing one.
	UpsertItem(ctx context.Context, tx pgx.Tx, userID string, item model.LineItem) error

	// DeleteItem removes one line. Deleting an absent line is not an error.
	DeleteItem(ctx context.Context, tx pgx.Tx, userID, productID, variantKey string) error

	// DeleteAll removes every line in the user's cart.
	DeleteAll(ctx context.Context, tx pgx.Tx, userID string) error
}

// PromoRepository defines promotion record access.
type PromoRepository interface {
	// GetByCode retrieves a promotion by its canonical code.
	// Returns nil when no record matches.
	GetByCode(ctx context.Context, code string) (*model.Promotion, error)

	// IncrementUsage atomically increments the usage counter, guarded by the
	// usage limit. Returns false when the limit was already reached, so a
	// concurrent redemption can never push the counter past the cap.
	IncrementUsage(ctx context.Context, code string) (bool, error)
}

// OrderRepository defines order record access. Orders are append-only from
// this core's point of view.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts the order and its item snapshot within the transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// CountByUser returns how many orders the user has placed.
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ProfileRepository defines access to the saved shipping address.
type ProfileRepository interface {
	// Get retrieves a user's profile, or nil when none is saved.
	Get(ctx context.Context, userID string) (*model.Profile, error)

	// SaveAddress upserts the user's saved shipping address.
	SaveAddress(ctx context.Context, userID string, addr model.Address) error
}
