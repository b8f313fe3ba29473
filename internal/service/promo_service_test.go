package service

import (
	"context"
	"testing"
	"time"

	"tarha-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPromoService(promoRepo *MockPromoRepository, orderRepo *MockOrderRepository, now time.Time) PromoService {
	svc := NewPromoService(promoRepo, orderRepo, nil, zerolog.Nop()).(*promoService)
	svc.now = func() time.Time { return now }
	return svc
}

func activePromo() *model.Promotion {
	return &model.Promotion{
		Code:        "SAVE10",
		Type:        model.DiscountPercentage,
		Value:       10,
		MaxDiscount: 50,
		Active:      true,
		ExpiresAt:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		UsageCount:  10,
		UsageLimit:  100,
	}
}

func TestPromoService_Apply_Success(t *testing.T) {
	ctx := context.Background()
	promoRepo := new(MockPromoRepository)
	orderRepo := new(MockOrderRepository)

	promoRepo.On("GetByCode", ctx, "SAVE10").Return(activePromo(), nil)
	promoRepo.On("IncrementUsage", ctx, "SAVE10").Return(true, nil)

	svc := newTestPromoService(promoRepo, orderRepo, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	// Lowercase input resolves to the canonical code.
	applied, err := svc.Apply(ctx, " save10 ", 300, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.InDelta(t, 30.0, applied.Discount, 0.001)
	promoRepo.AssertExpectations(t)
}

func TestPromoService_Apply_DiscountClamped(t *testing.T) {
	ctx := context.Background()
	promoRepo := new(MockPromoRepository)
	orderRepo := new(MockOrderRepository)

	promoRepo.On("GetByCode", ctx, "SAVE10").Return(activePromo(), nil)
	promoRepo.On("IncrementUsage", ctx, "SAVE10").Return(true, nil)

	svc := newTestPromoService(promoRepo, orderRepo, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	// 10% of 800 is 80, held to the 50 cap.
	applied, err := svc.Apply(ctx, "SAVE10", 800, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, applied.Discount, 0.001)
}

func TestPromoService_Apply_Rejections(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		promo       *model.Promotion
		orderCount  int
		expectedErr *model.DomainError
	}{
		{
			name:        "Unknown code",
			promo:       nil,
			expectedErr: model.ErrPromoNotFound,
		},
		{
			name: "Inactive code",
			promo: func() *model.Promotion {
				p := activePromo()
				p.Active = false
				return p
			}(),
			expectedErr: model.ErrPromoInactive,
		},
		{
			name: "Expired code",
			promo: func() *model.Promotion {
				p := activePromo()
				p.ExpiresAt = now.Add(-24 * time.Hour)
				return p
			}(),
			expectedErr: model.ErrPromoExpired,
		},
		{
			name: "Expiry boundary is exclusive",
			promo: func() *model.Promotion {
				p := activePromo()
				p.ExpiresAt = now
				return p
			}(),
			expectedErr: model.ErrPromoExpired,
		},
		{
			name: "First order only with prior orders",
			promo: func() *model.Promotion {
				p := activePromo()
				p.FirstOrderOnly = true
				return p
			}(),
			orderCount:  2,
			expectedErr: model.ErrPromoFirstOrderOnly,
		},
		{
			name: "Usage limit reached",
			promo: func() *model.Promotion {
				p := activePromo()
				p.UsageCount = 100
				return p
			}(),
			expectedErr: model.ErrPromoExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			promoRepo := new(MockPromoRepository)
			orderRepo := new(MockOrderRepository)

			if tt.promo == nil {
				promoRepo.On("GetByCode", ctx, mock.Anything).Return(nil, nil)
			} else {
				promoRepo.On("GetByCode", ctx, "SAVE10").Return(tt.promo, nil)
			}
			orderRepo.On("CountByUser", ctx, "user-1").Return(tt.orderCount, nil)

			svc := newTestPromoService(promoRepo, orderRepo, now)
			applied, err := svc.Apply(ctx, "SAVE10", 300, "user-1")

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, applied)
			promoRepo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
		})
	}
}

func TestPromoService_Apply_FirstOrderOnlyForNewCustomer(t *testing.T) {
	ctx := context.Background()
	promoRepo := new(MockPromoRepository)
	orderRepo := new(MockOrderRepository)

	promo := activePromo()
	promo.FirstOrderOnly = true

	promoRepo.On("GetByCode", ctx, "SAVE10").Return(promo, nil)
	orderRepo.On("CountByUser", ctx, "user-1").Return(0, nil)
	promoRepo.On("IncrementUsage", ctx, "SAVE10").Return(true, nil)

	svc := newTestPromoService(promoRepo, orderRepo, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	applied, err := svc.Apply(ctx, "SAVE10", 300, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	orderRepo.AssertExpectations(t)
}

func TestPromoService_Apply_LostIncrementRace(t *testing.T) {
	ctx := context.Background()
	promoRepo := new(MockPromoRepository)
	orderRepo := new(MockOrderRepository)

	promo := activePromo()
	promo.UsageCount = 99
	promo.UsageLimit = 100

	promoRepo.On("GetByCode", ctx, "SAVE10").Return(promo, nil)
	// Another session consumed the last redemption between the read and the
	// guarded increment.
	promoRepo.On("IncrementUsage", ctx, "SAVE10").Return(false, nil)

	svc := newTestPromoService(promoRepo, orderRepo, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	applied, err := svc.Apply(ctx, "SAVE10", 300, "user-1")

	assert.ErrorIs(t, err, model.ErrPromoExhausted)
	assert.Nil(t, applied)
}
