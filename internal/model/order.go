package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Creation produces pending or waiting_for_payment depending
// on the payment method; later transitions are administrative and happen
// outside this core.
const (
	OrderStatusPending           = "pending"
	OrderStatusWaitingForPayment = "waiting_for_payment"
	OrderStatusFulfilled         = "fulfilled"
	OrderStatusCancelled         = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentBankTransfer   = "bank_transfer"
	PaymentWallet         = "wallet"
)

// Address is a shipping destination. All fields except Details are required
// at checkout.
type Address struct {
	Name    string `json:"name" db:"name"`
	Phone   string `json:"phone" db:"phone"`
	Region  string `json:"region" db:"region"`
	City    string `json:"city" db:"city"`
	Street  string `json:"street" db:"street"`
	Details string `json:"details,omitempty" db:"details"`
}

// Order is an immutable record of a completed checkout. This core only ever
// appends orders; it never updates or deletes them.
type Order struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        string     `json:"userId" db:"user_id"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal" db:"subtotal"`
	Discount      float64    `json:"discount" db:"discount"`
	DeliveryFee   float64    `json:"deliveryFee" db:"delivery_fee"`
	Total         float64    `json:"total" db:"total"`
	PromoCode     *string    `json:"promoCode,omitempty" db:"promo_code"`
	PaymentMethod string     `json:"paymentMethod" db:"payment_method"`
	PaymentRef    *string    `json:"paymentRef,omitempty" db:"payment_ref"`
	Address       Address    `json:"address"`
	Status        string     `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// CheckoutRequest is the payload for placing an order.
type CheckoutRequest struct {
	Address       Address `json:"address"`
	PromoCode     string  `json:"promoCode,omitempty"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentRef    string  `json:"paymentRef,omitempty"`
}

// CheckoutResponse is returned to the confirmation page.
type CheckoutResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	Subtotal    float64   `json:"subtotal"`
	Discount    float64   `json:"discount"`
	DeliveryFee float64   `json:"deliveryFee"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
}
