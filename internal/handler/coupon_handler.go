package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bundle-kart/internal/model"
	"bundle-kart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CouponHandler handles coupon validation and administration requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// Validate handles POST /api/coupons/validate requests. The verdict always
// comes back with 200: a rejected coupon is a successful validation attempt,
// not a request failure.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.CouponValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	result, err := h.service.ValidateCoupon(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to validate coupon", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/admin/coupons requests.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeAdminError(w, err, "failed to create coupon")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/coupons/{id} requests.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	var req model.CouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeAdminError(w, err, "failed to update coupon")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/coupons/{id} requests.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.couponID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete coupon", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/admin/coupons requests with pagination.
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(w, r, h.logger)
	if !ok {
		return
	}

	coupons, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "failed to list coupons", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coupons)
}

// writeAdminError maps administrative failures: domain errors keep their
// code, request-shape complaints become 400s, the rest are opaque 500s.
func (h *CouponHandler) writeAdminError(w http.ResponseWriter, err error, fallback string) {
	var domainErr *model.DomainError
	switch {
	case errors.As(err, &domainErr):
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, h.logger)
	case strings.Contains(err.Error(), "require") ||
		strings.Contains(err.Error(), "invalid") ||
		strings.Contains(err.Error(), "must") ||
		strings.Contains(err.Error(), "nil"):
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
	default:
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, h.logger)
	}
}

func (h *CouponHandler) couponID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid coupon ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// pagination parses limit/offset query parameters, leaving zero values for
// the service layer to fill with its defaults.
func pagination(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (limit, offset int, ok bool) {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid limit parameter", logger)
			return 0, 0, false
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid offset parameter", logger)
			return 0, 0, false
		}
	}

	return limit, offset, true
}
