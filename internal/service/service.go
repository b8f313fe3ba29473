package service

import (
	"context"

	"tarha-store/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue browsing.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines the cart operations. Every mutation keeps the cart and
// the product stock counters consistent: stock is reserved when an item
// enters a cart, not at checkout.
type CartService interface {
	// Get retrieves the user's cart, creating the empty view on first access.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem adds one unit of a product (and optional variant) to the cart,
	// reserving one unit of stock.
	AddItem(ctx context.Context, userID, productID, variantKey string) (*model.Cart, error)

	// UpdateQuantity sets a line's quantity (>= 1), reserving or restoring the
	// stock delta against a freshly read stock value.
	UpdateQuantity(ctx context.Context, userID, lineKey string, quantity int) (*model.Cart, error)

	// RemoveItem removes a line entirely, restoring its reserved quantity.
	// Removing an absent line is a no-op.
	RemoveItem(ctx context.Context, userID, lineKey string) (*model.Cart, error)

	// Clear empties the cart, restoring each line's reserved stock. Each
	// restoration is independent; failures are logged and the loop continues.
	Clear(ctx context.Context, userID string) error
}

// PromoApplication is the result of a successful promo code redemption.
type PromoApplication struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

// PromoService validates and redeems promotion codes.
type PromoService interface {
	// Apply validates the code against the user and subtotal, consumes one
	// usage, and returns the bounded discount. Not idempotent: re-applying the
	// same code consumes another usage. "Removing" an applied promo is a pure
	// client-side reset.
	Apply(ctx context.Context, code string, subtotal float64, userID string) (*PromoApplication, error)
}

// DeliveryService resolves delivery fees by region.
type DeliveryService interface {
	// Resolve returns the flat fee for the region, or 0 once the subtotal
	// reaches the free-delivery threshold.
	Resolve(region string, subtotal float64) float64

	// Reload re-reads the fee table so fee and threshold changes apply to
	// future orders.
	Reload(ctx context.Context) error
}

// CheckoutService turns a cart into an immutable order.
type CheckoutService interface {
	// PlaceOrder validates the checkout form, prices the cart, commits the
	// order record and empties the cart without restoring stock.
	PlaceOrder(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// GetOrder retrieves one of the user's orders, or nil when absent.
	GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*model.Order, error)

	// ListOrders retrieves the user's orders, newest first.
	ListOrders(ctx context.Context, userID string) ([]model.Order, error)

	// SavedAddress returns the shipping address saved at the user's last
	// checkout, or nil when none exists. Used to prefill the checkout form.
	SavedAddress(ctx context.Context, userID string) (*model.Address, error)
}
