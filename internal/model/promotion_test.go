package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizePromoCode("save10"))
	assert.Equal(t, "SAVE10", NormalizePromoCode("  Save10 "))
	assert.Equal(t, "SAVE10", NormalizePromoCode("SAVE10"))
	assert.Equal(t, "", NormalizePromoCode("   "))
}

func TestPromotion_Discount(t *testing.T) {
	tests := []struct {
		name     string
		promo    Promotion
		subtotal float64
		expected float64
	}{
		{
			name:     "Percentage below cap",
			promo:    Promotion{Type: DiscountPercentage, Value: 10, MaxDiscount: 50},
			subtotal: 300,
			expected: 30,
		},
		{
			name:     "Percentage clamped to cap",
			promo:    Promotion{Type: DiscountPercentage, Value: 10, MaxDiscount: 50},
			subtotal: 800,
			expected: 50,
		},
		{
			name:     "Percentage exactly at cap",
			promo:    Promotion{Type: DiscountPercentage, Value: 10, MaxDiscount: 50},
			subtotal: 500,
			expected: 50,
		},
		{
			name:     "Percentage without cap",
			promo:    Promotion{Type: DiscountPercentage, Value: 25},
			subtotal: 400,
			expected: 100,
		},
		{
			name:     "Fixed amount",
			promo:    Promotion{Type: DiscountFixed, Value: 75, MaxDiscount: 100},
			subtotal: 300,
			expected: 75,
		},
		{
			name:     "Fixed amount clamped",
			promo:    Promotion{Type: DiscountFixed, Value: 150, MaxDiscount: 100},
			subtotal: 300,
			expected: 100,
		},
		{
			name:     "Fixed amount may exceed subtotal",
			promo:    Promotion{Type: DiscountFixed, Value: 100},
			subtotal: 40,
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.promo.Discount(tt.subtotal), 0.001)
		})
	}
}
