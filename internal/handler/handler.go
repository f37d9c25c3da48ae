package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bundle-kart/internal/model"

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

// writeError writes a standardised error body with a machine-readable code.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("code", code).
		Str("message", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service-layer error to an HTTP response. Domain
// errors keep their code and user-facing message; anything else becomes an
// opaque 500.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, logger)
}

// statusForCode picks the HTTP status for a domain error code.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeCouponNotFound:
		return http.StatusNotFound
	case model.ErrCodeCouponExists, model.ErrCodeCouponInUse:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
