package service

import (
	"context"
	"fmt"
	"time"

	"tarha-store/internal/cache"
	"tarha-store/internal/events"
	"tarha-store/internal/metrics"
	"tarha-store/internal/model"
	"tarha-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	profileRepo repository.ProfileRepository
	promos      PromoService
	delivery    DeliveryService
	cartCache   cache.CartCache
	publisher   events.Publisher
	metrics     *metrics.StoreMetrics
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	profileRepo repository.ProfileRepository,
	promos PromoService,
	delivery DeliveryService,
	cartCache cache.CartCache,
	publisher events.Publisher,
	storeMetrics *metrics.StoreMetrics,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		profileRepo: profileRepo,
		promos:      promos,
		delivery:    delivery,
		cartCache:   cartCache,
		publisher:   publisher,
		metrics:     storeMetrics,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// PlaceOrder validates the form, prices the cart and commits the order record
// and the cart wipe in one transaction. The wipe does NOT restore stock: the
// ordered units were consumed, not abandoned.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	start := time.Now()

	resp, err := s.placeOrder(ctx, userID, req)
	if s.metrics != nil {
		switch {
		case err == nil:
			s.metrics.RecordCheckout("ok", resp.Total, time.Since(start))
		case isDomainError(err):
			s.metrics.RecordCheckout("rejected", 0, 0)
		default:
			s.metrics.RecordCheckout("error", 0, 0)
		}
	}
	return resp, err
}

func (s *checkoutService) placeOrder(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	items, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if len(items) == 0 {
		return nil, model.ErrCartEmpty
	}

	cart := model.Cart{UserID: userID, Items: items}
	subtotal := cart.Subtotal()

	var discount float64
	var promoCode *string
	if req.PromoCode != "" {
		applied, err := s.promos.Apply(ctx, req.PromoCode, subtotal, userID)
		if err != nil {
			return nil, err
		}
		discount = applied.Discount
		promoCode = &applied.Code
	}

	deliveryFee := s.delivery.Resolve(req.Address.Region, subtotal)

	// A large fixed discount can exceed subtotal+fee; the customer owes
	// nothing, but we never owe the customer.
	total := subtotal - discount + deliveryFee
	if total < 0 {
		total = 0
	}

	status := model.OrderStatusWaitingForPayment
	if req.PaymentMethod == model.PaymentCashOnDelivery {
		status = model.OrderStatusPending
	}

	var paymentRef *string
	if req.PaymentRef != "" {
		ref := req.PaymentRef
		paymentRef = &ref
	}

	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   deliveryFee,
		Total:         total,
		PromoCode:     promoCode,
		PaymentMethod: req.PaymentMethod,
		PaymentRef:    paymentRef,
		Address:       req.Address,
		Status:        status,
		CreatedAt:     time.Now(),
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Empty the cart without touching stock.
	if err = s.cartRepo.DeleteAll(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if cacheErr := s.cartCache.Delete(ctx, userID); cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Str("user_id", userID).Msg("cart cache invalidation failed")
	}

	// Prefill convenience only; the order stands either way.
	if saveErr := s.profileRepo.SaveAddress(ctx, userID, req.Address); saveErr != nil {
		s.logger.Warn().Err(saveErr).Str("user_id", userID).Msg("failed to save shipping address to profile")
	}

	if pubErr := s.publisher.OrderCreated(ctx, order); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("order_id", order.ID.String()).Msg("failed to publish order event")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Float64("subtotal", subtotal).
		Float64("discount", discount).
		Float64("delivery_fee", deliveryFee).
		Float64("total", total).
		Str("status", status).
		Msg("order placed")

	return &model.CheckoutResponse{
		OrderID:     order.ID,
		Subtotal:    subtotal,
		Discount:    discount,
		DeliveryFee: deliveryFee,
		Total:       total,
		Status:      status,
	}, nil
}

// GetOrder retrieves one of the user's orders. Another user's order reads as
// absent.
func (s *checkoutService) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, nil
	}
	return order, nil
}

// ListOrders retrieves the user's orders, newest first.
func (s *checkoutService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SavedAddress returns the address captured at the user's last checkout.
func (s *checkoutService) SavedAddress(ctx context.Context, userID string) (*model.Address, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved address: %w", err)
	}
	if profile == nil {
		return nil, nil
	}
	addr := profile.Address()
	return &addr, nil
}

// validateCheckoutRequest checks the payment method and required address
// fields.
func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewMissingFieldError("request")
	}

	switch req.PaymentMethod {
	case model.PaymentCashOnDelivery, model.PaymentWallet:
	case model.PaymentBankTransfer:
		if req.PaymentRef == "" {
			return model.NewMissingFieldError("paymentRef")
		}
	default:
		return model.ErrInvalidPayment
	}

	required := []struct {
		name  string
		value string
	}{
		{"name", req.Address.Name},
		{"phone", req.Address.Phone},
		{"region", req.Address.Region},
		{"city", req.Address.City},
		{"street", req.Address.Street},
	}
	for _, field := range required {
		if field.value == "" {
			return model.NewMissingFieldError(field.name)
		}
	}

	return nil
}
