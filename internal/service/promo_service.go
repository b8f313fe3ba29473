package service

import (
	"context"
	"fmt"
	"time"

	"tarha-store/internal/metrics"
	"tarha-store/internal/model"
	"tarha-store/internal/repository"

	"github.com/rs/zerolog"
)

// promoService implements PromoService.
type promoService struct {
	promoRepo repository.PromoRepository
	orderRepo repository.OrderRepository
	metrics   *metrics.StoreMetrics
	now       func() time.Time
	logger    zerolog.Logger
}

// NewPromoService creates a new promotion service.
func NewPromoService(
	promoRepo repository.PromoRepository,
	orderRepo repository.OrderRepository,
	storeMetrics *metrics.StoreMetrics,
	logger zerolog.Logger,
) PromoService {
	return &promoService{
		promoRepo: promoRepo,
		orderRepo: orderRepo,
		metrics:   storeMetrics,
		now:       time.Now,
		logger:    logger.With().Str("service", "promo").Logger(),
	}
}

// Apply validates the code and consumes one usage. The usage increment is
// guarded in the store, so two sessions racing on the last redemption cannot
// both win; the loser gets ErrPromoExhausted.
func (s *promoService) Apply(ctx context.Context, code string, subtotal float64, userID string) (*PromoApplication, error) {
	result, err := s.apply(ctx, code, subtotal, userID)
	if err != nil {
		if domainErr, ok := err.(*model.DomainError); ok {
			s.logger.Warn().
				Str("code", model.NormalizePromoCode(code)).
				Str("user_id", userID).
				Str("reason", domainErr.Code).
				Msg("promo code rejected")
			if s.metrics != nil {
				s.metrics.RecordPromoRejection(domainErr.Code)
			}
		}
		return nil, err
	}

	s.logger.Info().
		Str("code", result.Code).
		Str("user_id", userID).
		Float64("discount", result.Discount).
		Msg("promo code applied")

	return result, nil
}

func (s *promoService) apply(ctx context.Context, code string, subtotal float64, userID string) (*PromoApplication, error) {
	canonical := model.NormalizePromoCode(code)

	promo, err := s.promoRepo.GetByCode(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to apply promo: %w", err)
	}
	if promo == nil {
		return nil, model.ErrPromoNotFound
	}

	if !promo.Active {
		return nil, model.ErrPromoInactive
	}

	if !s.now().Before(promo.ExpiresAt) {
		return nil, model.ErrPromoExpired
	}

	if promo.FirstOrderOnly {
		count, err := s.orderRepo.CountByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to apply promo: %w", err)
		}
		if count > 0 {
			return nil, model.ErrPromoFirstOrderOnly
		}
	}

	if promo.UsageCount >= promo.UsageLimit {
		return nil, model.ErrPromoExhausted
	}

	// The read-side check above can pass for two sessions at once; the
	// guarded increment decides who actually gets the redemption.
	ok, err := s.promoRepo.IncrementUsage(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to apply promo: %w", err)
	}
	if !ok {
		return nil, model.ErrPromoExhausted
	}

	return &PromoApplication{
		Code:     canonical,
		Discount: promo.Discount(subtotal),
	}, nil
}
