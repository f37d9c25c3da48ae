package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bundle-kart/internal/model"
	"bundle-kart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		var domainErr *model.DomainError
		switch {
		case errors.As(err, &domainErr):
			// Coupon rejections surface as domain errors carrying the
			// verdict code; the message is already display-ready.
			writeError(w, http.StatusBadRequest, domainErr.Code, domainErr.Message, h.logger)
		case strings.Contains(err.Error(), "required") ||
			strings.Contains(err.Error(), "must contain") ||
			strings.Contains(err.Error(), "nil"):
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
		default:
			writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to create order", h.logger)
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeOrderNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
