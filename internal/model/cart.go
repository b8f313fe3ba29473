package model

import (
	"strings"
	"time"
)

// LineItem is one product+variant entry in a user's cart. The price is a
// snapshot captured when the line was first added and does not follow later
// catalogue price changes.
type LineItem struct {
	ProductID  string    `json:"productId" db:"product_id"`
	VariantKey string    `json:"variantKey,omitempty" db:"variant_key"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Price      float64   `json:"price" db:"price"`
	Name       string    `json:"name" db:"name"`
	NameAr     string    `json:"nameAr" db:"name_ar"`
	Image      string    `json:"image,omitempty" db:"image"`
	AddedAt    time.Time `json:"addedAt" db:"added_at"`
}

// LineKey uniquely identifies the line within its owner's cart.
func (l *LineItem) LineKey() string {
	return MakeLineKey(l.ProductID, l.VariantKey)
}

// MakeLineKey builds a line key from a product ID and an optional variant key.
func MakeLineKey(productID, variantKey string) string {
	if variantKey == "" {
		return productID
	}
	return productID + ":" + variantKey
}

// SplitLineKey is the inverse of MakeLineKey.
func SplitLineKey(lineKey string) (productID, variantKey string) {
	if i := strings.IndexByte(lineKey, ':'); i >= 0 {
		return lineKey[:i], lineKey[i+1:]
	}
	return lineKey, ""
}

// Cart holds a signed-in user's line items. Anonymous visitors never reach
// this layer; their carts live in the browser only.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []LineItem `json:"items"`
}

// Subtotal sums price×quantity across all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Find returns the line matching lineKey, or nil.
func (c *Cart) Find(lineKey string) *LineItem {
	for i := range c.Items {
		if c.Items[i].LineKey() == lineKey {
			return &c.Items[i]
		}
	}
	return nil
}
