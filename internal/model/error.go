package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeOutOfStock          = "OUT_OF_STOCK"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidVariant      = "INVALID_VARIANT"
	ErrCodeLineNotFound        = "LINE_NOT_FOUND"
	ErrCodeCartEmpty           = "CART_EMPTY"
	ErrCodePromoNotFound       = "PROMO_NOT_FOUND"
	ErrCodePromoInactive       = "PROMO_INACTIVE"
	ErrCodePromoExpired        = "PROMO_EXPIRED"
	ErrCodePromoFirstOrderOnly = "PROMO_FIRST_ORDER_ONLY"
	ErrCodePromoExhausted      = "PROMO_EXHAUSTED"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule rejection carrying English and Arabic
// messages for the bilingual storefront. Domain errors are surfaced to the
// caller as-is and must never be retried automatically.
type DomainError struct {
	Code      string
	Message   string
	MessageAr string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Localized returns the message for the given language tag ("ar" selects
// Arabic, anything else English).
func (e *DomainError) Localized(lang string) string {
	if lang == "ar" && e.MessageAr != "" {
		return e.MessageAr
	}
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message, messageAr string) *DomainError {
	return &DomainError{
		Code:      code,
		Message:   message,
		MessageAr: messageAr,
	}
}

// Common domain errors
var (
	ErrOutOfStock          = NewDomainError(ErrCodeOutOfStock, "Requested quantity is no longer in stock", "الكمية المطلوبة لم تعد متوفرة")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product not found", "المنتج غير موجود")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero", "يجب أن تكون الكمية أكبر من صفر")
	ErrInvalidVariant      = NewDomainError(ErrCodeInvalidVariant, "Selected color is not available for this product", "اللون المختار غير متوفر لهذا المنتج")
	ErrLineNotFound        = NewDomainError(ErrCodeLineNotFound, "Item not found in cart", "العنصر غير موجود في السلة")
	ErrCartEmpty           = NewDomainError(ErrCodeCartEmpty, "Cart is empty", "السلة فارغة")
	ErrPromoNotFound       = NewDomainError(ErrCodePromoNotFound, "Promo code not found", "كود الخصم غير موجود")
	ErrPromoInactive       = NewDomainError(ErrCodePromoInactive, "Promo code is not active", "كود الخصم غير مفعل")
	ErrPromoExpired        = NewDomainError(ErrCodePromoExpired, "Promo code has expired", "انتهت صلاحية كود الخصم")
	ErrPromoFirstOrderOnly = NewDomainError(ErrCodePromoFirstOrderOnly, "Promo code is valid for first orders only", "كود الخصم صالح للطلب الأول فقط")
	ErrPromoExhausted      = NewDomainError(ErrCodePromoExhausted, "Promo code usage limit reached", "تم استنفاد عدد مرات استخدام كود الخصم")
	ErrInvalidPayment      = NewDomainError(ErrCodeInvalidPayment, "Unsupported payment method", "طريقة الدفع غير مدعومة")
)

// NewMissingFieldError reports an incomplete checkout form.
func NewMissingFieldError(field string) *DomainError {
	return &DomainError{
		Code:      ErrCodeMissingField,
		Message:   fmt.Sprintf("Required field is missing: %s", field),
		MessageAr: fmt.Sprintf("حقل مطلوب غير مكتمل: %s", field),
	}
}
