package model

import (
	"strings"
	"time"
)

// Discount types for promotions.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Promotion is a redeemable promo code. Codes are matched case-insensitively
// and stored in canonical (uppercase) form.
type Promotion struct {
	Code           string    `json:"code" db:"code"`
	Type           string    `json:"type" db:"type"`
	Value          float64   `json:"value" db:"value"`
	MaxDiscount    float64   `json:"maxDiscount" db:"max_discount"`
	Active         bool      `json:"active" db:"active"`
	ExpiresAt      time.Time `json:"expiresAt" db:"expires_at"`
	FirstOrderOnly bool      `json:"firstOrderOnly" db:"first_order_only"`
	UsageCount     int       `json:"usageCount" db:"usage_count"`
	UsageLimit     int       `json:"usageLimit" db:"usage_limit"`
}

// NormalizePromoCode maps a user-entered code to its canonical form.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount computes the promotion's discount for the given subtotal, clamped
// to MaxDiscount when a cap is set. A fixed-amount discount may exceed the
// subtotal; the order total is clamped at zero elsewhere.
func (p *Promotion) Discount(subtotal float64) float64 {
	var discount float64
	switch p.Type {
	case DiscountPercentage:
		discount = subtotal * p.Value / 100
	default:
		discount = p.Value
	}
	if p.MaxDiscount > 0 && discount > p.MaxDiscount {
		discount = p.MaxDiscount
	}
	return discount
}
