package handler

import (
	"encoding/json"
	"net/http"

	"tarha-store/internal/model"
	"tarha-store/internal/service"

	"github.com/rs/zerolog"
)

// PromoHandler handles promo code HTTP requests.
type PromoHandler struct {
	promos service.PromoService
	carts  service.CartService
	logger zerolog.Logger
}

// NewPromoHandler creates a new promo handler.
func NewPromoHandler(promos service.PromoService, carts service.CartService, logger zerolog.Logger) *PromoHandler {
	return &PromoHandler{
		promos: promos,
		carts:  carts,
		logger: logger.With().Str("handler", "promo").Logger(),
	}
}

// applyPromoRequest is the payload for applying a promo code.
type applyPromoRequest struct {
	Code string `json:"code"`
}

// Apply handles POST /api/promos/apply requests. Each successful call
// consumes one usage of the code; the client tracks "already applied" state
// and resets it locally.
func (h *PromoHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	userID, ok := requestUser(w, r, h.logger)
	if !ok {
		return
	}

	var req applyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "code is required", h.logger)
		return
	}

	cart, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	applied, err := h.promos.Apply(r.Context(), req.Code, cart.Subtotal(), userID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, applied)
}
