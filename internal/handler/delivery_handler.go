package handler

import (
	"net/http"

	"tarha-store/internal/model"
	"tarha-store/internal/service"

	"github.com/rs/zerolog"
)

// DeliveryHandler handles delivery fee HTTP requests.
type DeliveryHandler struct {
	delivery service.DeliveryService
	carts    service.CartService
	logger   zerolog.Logger
}

// NewDeliveryHandler creates a new delivery handler.
func NewDeliveryHandler(delivery service.DeliveryService, carts service.CartService, logger zerolog.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		delivery: delivery,
		carts:    carts,
		logger:   logger.With().Str("handler", "delivery").Logger(),
	}
}

// feeResponse is the delivery fee quote for the current cart.
type feeResponse struct {
	Region   string  `json:"region"`
	Subtotal float64 `json:"subtotal"`
	Fee      float64 `json:"fee"`
}

// GetFee handles GET /api/delivery/fee?region=R requests, quoting the fee
// against the user's current cart subtotal.
func (h *DeliveryHandler) GetFee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	userID, ok := requestUser(w, r, h.logger)
	if !ok {
		return
	}

	region := r.URL.Query().Get("region")
	if region == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "region is required", h.logger)
		return
	}

	cart, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	subtotal := cart.Subtotal()
	writeJSON(w, http.StatusOK, feeResponse{
		Region:   region,
		Subtotal: subtotal,
		Fee:      h.delivery.Resolve(region, subtotal),
	})
}

// Reload handles POST /api/admin/delivery/reload requests.
func (h *DeliveryHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	if err := h.delivery.Reload(r.Context()); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
