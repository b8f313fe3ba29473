package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tarha-store/internal/cache"
	"tarha-store/internal/metrics"
	"tarha-store/internal/model"
	"tarha-store/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. All stock/cart consistency lives here:
// each mutation runs the guarded stock update and the cart write in one
// database transaction.
type cartService struct {
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	cartCache     cache.CartCache
	metrics       *metrics.StoreMetrics
	logger        zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	cartCache cache.CartCache,
	storeMetrics *metrics.StoreMetrics,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		cartCache:     cartCache,
		metrics:       storeMetrics,
		logger:        logger.With().Str("service", "cart").Logger(),
	}
}

// Get retrieves the user's cart, reading through the cache.
func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cached, err := s.cartCache.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache read failed")
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartCache.Set(ctx, userID, cart); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache fill failed")
	}

	return cart, nil
}

// AddItem adds one unit of (product, variant) to the cart. The stock
// decrement and the cart write commit together or not at all. Adding requires
// a unit to remain on the shelf after the reservation: the quantity held in
// the cart must stay strictly below the live stock count.
func (s *cartService) AddItem(ctx context.Context, userID, productID, variantKey string) (*model.Cart, error) {
	cart, err := s.addItem(ctx, userID, productID, variantKey)
	s.recordOp("add", err)
	return cart, err
}

func (s *cartService) addItem(ctx context.Context, userID, productID, variantKey string) (*model.Cart, error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	product, err := s.productRepo.GetByIDTx(ctx, tx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	if product == nil {
		err = model.ErrProductNotFound
		return nil, err
	}

	if variantKey != "" && !product.HasColor(variantKey) {
		err = model.ErrInvalidVariant
		return nil, err
	}

	line, err := s.cartRepo.GetItemForUpdate(ctx, tx, userID, productID, variantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	var item model.LineItem
	if line != nil {
		item = *line
		item.Quantity++
	} else {
		item = model.LineItem{
			ProductID:  productID,
			VariantKey: variantKey,
			Quantity:   1,
			Price:      product.Price, // snapshot; later price changes do not follow
			Name:       product.Name,
			NameAr:     product.NameAr,
			Image:      product.Image,
			AddedAt:    time.Now(),
		}
	}

	// Reserve one unit, guarded so the new cart quantity stays strictly below
	// the remaining stock. With stock at 1 the add is rejected even though a
	// unit exists.
	if err = s.inventoryRepo.ReserveStock(ctx, tx, productID, 1, item.Quantity+1); err != nil {
		return nil, err
	}

	if err = s.cartRepo.UpsertItem(ctx, tx, userID, item); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to commit add item")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.invalidateCache(ctx, userID)

	s.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Str("variant_key", variantKey).
		Int("quantity", item.Quantity).
		Msg("item added to cart")

	return s.loadCart(ctx, userID)
}

// UpdateQuantity sets a line's quantity. The stock check runs against a
// freshly read value inside the transaction, never a value cached when the
// cart page loaded.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, lineKey string, quantity int) (*model.Cart, error) {
	cart, err := s.updateQuantity(ctx, userID, lineKey, quantity)
	s.recordOp("update", err)
	return cart, err
}

func (s *cartService) updateQuantity(ctx context.Context, userID, lineKey string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	productID, variantKey := model.SplitLineKey(lineKey)

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	line, err := s.cartRepo.GetItemForUpdate(ctx, tx, userID, productID, variantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	if line == nil {
		err = model.ErrLineNotFound
		return nil, err
	}

	delta := quantity - line.Quantity
	switch {
	case delta > 0:
		if err = s.inventoryRepo.ReserveStock(ctx, tx, productID, delta, delta); err != nil {
			return nil, err
		}
	case delta < 0:
		if err = s.inventoryRepo.RestoreStock(ctx, tx, productID, -delta); err != nil {
			return nil, fmt.Errorf("failed to update quantity: %w", err)
		}
	}

	item := *line
	item.Quantity = quantity
	if err = s.cartRepo.UpsertItem(ctx, tx, userID, item); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to commit quantity update")
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.invalidateCache(ctx, userID)

	s.logger.Info().
		Str("user_id", userID).
		Str("line_key", lineKey).
		Int("quantity", quantity).
		Int("delta", delta).
		Msg("cart quantity updated")

	return s.loadCart(ctx, userID)
}

// RemoveItem removes a line and restores its full reserved quantity to stock.
// Removing a line that does not exist is a silent no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID, lineKey string) (*model.Cart, error) {
	cart, err := s.removeItem(ctx, userID, lineKey)
	s.recordOp("remove", err)
	return cart, err
}

func (s *cartService) removeItem(ctx context.Context, userID, lineKey string) (*model.Cart, error) {
	productID, variantKey := model.SplitLineKey(lineKey)

	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	line, err := s.cartRepo.GetItemForUpdate(ctx, tx, userID, productID, variantKey)
	if err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	if line == nil {
		// Already gone; nothing to restore.
		if err = tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to remove item: %w", err)
		}
		return s.loadCart(ctx, userID)
	}

	if err = s.inventoryRepo.RestoreStock(ctx, tx, productID, line.Quantity); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	if err = s.cartRepo.DeleteItem(ctx, tx, userID, productID, variantKey); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to commit item removal")
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	s.invalidateCache(ctx, userID)

	s.logger.Info().
		Str("user_id", userID).
		Str("line_key", lineKey).
		Int("restored", line.Quantity).
		Msg("item removed from cart")

	return s.loadCart(ctx, userID)
}

// Clear empties the cart, restoring each line's reserved quantity. Each line
// is restored in its own transaction; a failed line is logged and the loop
// moves on, so one broken product cannot strand the rest of the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	err := s.clear(ctx, userID)
	s.recordOp("clear", err)
	return err
}

func (s *cartService) clear(ctx context.Context, userID string) error {
	items, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	var firstErr error
	restored := 0
	for _, item := range items {
		if err := s.restoreLine(ctx, userID, item); err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", userID).
				Str("product_id", item.ProductID).
				Str("variant_key", item.VariantKey).
				Int("quantity", item.Quantity).
				Msg("failed to restore stock for cart line")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		restored++
	}

	s.invalidateCache(ctx, userID)

	s.logger.Info().
		Str("user_id", userID).
		Int("restored", restored).
		Int("total", len(items)).
		Msg("cart cleared")

	return firstErr
}

// restoreLine returns one line's quantity to stock and deletes the line, in
// its own transaction.
func (s *cartService) restoreLine(ctx context.Context, userID string, item model.LineItem) (err error) {
	tx, err := s.cartRepo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.inventoryRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
		return err
	}

	if err = s.cartRepo.DeleteItem(ctx, tx, userID, item.ProductID, item.VariantKey); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// loadCart reads the cart from the repository, bypassing the cache.
func (s *cartService) loadCart(ctx context.Context, userID string) (*model.Cart, error) {
	items, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if items == nil {
		items = []model.LineItem{}
	}
	return &model.Cart{UserID: userID, Items: items}, nil
}

func (s *cartService) invalidateCache(ctx context.Context, userID string) {
	if err := s.cartCache.Delete(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("cart cache invalidation failed")
	}
}

// recordOp classifies the outcome of a cart operation for metrics.
func (s *cartService) recordOp(op string, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.RecordCartOp(op, "ok")
	case isDomainError(err):
		s.metrics.RecordCartOp(op, "rejected")
	default:
		s.metrics.RecordCartOp(op, "error")
	}
}

func isDomainError(err error) bool {
	var domainErr *model.DomainError
	return errors.As(err, &domainErr)
}
