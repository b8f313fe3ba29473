package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tarha-store/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// carry a 4xx status and the message in the requested language; anything else
// is a 500 with no internals exposed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Localized(requestLang(r)), logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "something went wrong", logger)
}

// domainStatus picks an HTTP status for a domain error code.
func domainStatus(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeLineNotFound, model.ErrCodePromoNotFound:
		return http.StatusNotFound
	case model.ErrCodeOutOfStock, model.ErrCodePromoExhausted:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// requestLang returns "ar" when the client prefers Arabic, else "en".
func requestLang(r *http.Request) string {
	accept := r.Header.Get("Accept-Language")
	if strings.HasPrefix(strings.TrimSpace(strings.ToLower(accept)), "ar") {
		return "ar"
	}
	return "en"
}

// requestUser extracts the signed-in user injected by the upstream auth
// layer. An empty value means the request never passed authentication.
func requestUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing user identity", logger)
		return "", false
	}
	return userID, true
}
