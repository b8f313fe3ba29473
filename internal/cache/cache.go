package cache

import (
	"context"
	"errors"

	"tarha-store/internal/model"
)

// CartCache is a read cache in front of the cart repository. Mutations
// invalidate; reads fill on miss.
type CartCache interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	Set(ctx context.Context, userID string, cart *model.Cart) error
	Delete(ctx context.Context, userID string) error
}

// ErrCacheMiss is returned by Get when the user's cart is not cached.
var ErrCacheMiss = errors.New("cache miss")
