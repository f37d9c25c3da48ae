package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bundle-kart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCouponService is a mock implementation of CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) ValidateCoupon(ctx context.Context, req *model.CouponValidationRequest) (*model.ValidationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidationResult), args.Error(1)
}

func (m *MockCouponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponService) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Coupon), args.Error(1)
}

// couponRoutes mounts the handler the way the router does, so URL params
// resolve in tests.
func couponRoutes(h *CouponHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/coupons/validate", h.Validate)
	r.Get("/api/admin/coupons", h.List)
	r.Post("/api/admin/coupons", h.Create)
	r.Put("/api/admin/coupons/{id}", h.Update)
	r.Delete("/api/admin/coupons/{id}", h.Delete)
	return r
}

func TestCouponHandler_Validate(t *testing.T) {
	logger := zerolog.Nop()

	validResult := &model.ValidationResult{
		Valid:    true,
		Code:     model.CodeValid,
		Discount: 100,
	}
	rejected := model.Invalid(model.CodeMinOrderNotMet, "Minimum order value of ₹500 required")
	rejected.Shortfall = 150

	tests := []struct {
		name           string
		body           string
		mockResult     *model.ValidationResult
		mockError      error
		expectedStatus int
		expectService  bool
		expectValid    bool
	}{
		{
			name:           "Valid coupon",
			body:           `{"code":"SAVE100","userId":"` + uuid.NewString() + `","items":[]}`,
			mockResult:     validResult,
			expectedStatus: http.StatusOK,
			expectService:  true,
			expectValid:    true,
		},
		{
			name:           "Rejected coupon still returns 200",
			body:           `{"code":"SAVE100","userId":"` + uuid.NewString() + `","items":[]}`,
			mockResult:     &rejected,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `{"code":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			body:           `{"code":"SAVE100"}`,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCouponService)
			routes := couponRoutes(NewCouponHandler(mockService, logger))

			if tt.expectService {
				mockService.On("ValidateCoupon", mock.Anything, mock.AnythingOfType("*model.CouponValidationRequest")).
					Return(tt.mockResult, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			routes.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var result model.ValidationResult
				require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
				assert.Equal(t, tt.expectValid, result.Valid)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestCouponHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	created := &model.Coupon{
		ID:            uuid.New(),
		Code:          "SAVE100",
		DiscountType:  model.DiscountFixed,
		DiscountValue: 100,
		Status:        model.StatusActive,
		CouponType:    model.CouponCartWide,
	}

	tests := []struct {
		name           string
		body           string
		mockCoupon     *model.Coupon
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"code":"SAVE100","discountType":"fixed","discountValue":100,"couponType":"cart_wide","startDate":"2026-01-01T00:00:00Z"}`,
			mockCoupon:     created,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Duplicate code",
			body:           `{"code":"SAVE100","discountType":"fixed","discountValue":100,"couponType":"cart_wide","startDate":"2026-01-01T00:00:00Z"}`,
			mockError:      model.ErrCouponExists,
			expectedStatus: http.StatusConflict,
			expectService:  true,
		},
		{
			name:           "Validation failure",
			body:           `{"code":"SAVE100","discountType":"fixed","discountValue":0,"couponType":"cart_wide","startDate":"2026-01-01T00:00:00Z"}`,
			mockError:      errors.New("discount value must be positive"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           `{"code":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCouponService)
			routes := couponRoutes(NewCouponHandler(mockService, logger))

			if tt.expectService {
				mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.CouponRequest")).
					Return(tt.mockCoupon, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/admin/coupons", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			routes.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCouponHandler_Update(t *testing.T) {
	logger := zerolog.Nop()
	id := uuid.New()

	body := `{"code":"SAVE100","discountType":"percent","discountValue":20,"couponType":"cart_wide","startDate":"2026-01-01T00:00:00Z"}`

	tests := []struct {
		name           string
		path           string
		mockCoupon     *model.Coupon
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			path:           "/api/admin/coupons/" + id.String(),
			mockCoupon:     &model.Coupon{ID: id, Code: "SAVE100"},
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Not found",
			path:           "/api/admin/coupons/" + id.String(),
			mockError:      model.ErrCouponNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Invalid ID",
			path:           "/api/admin/coupons/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCouponService)
			routes := couponRoutes(NewCouponHandler(mockService, logger))

			if tt.expectService {
				mockService.On("Update", mock.Anything, id, mock.AnythingOfType("*model.CouponRequest")).
					Return(tt.mockCoupon, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewBufferString(body))
			w := httptest.NewRecorder()

			routes.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCouponHandler_Delete(t *testing.T) {
	logger := zerolog.Nop()
	id := uuid.New()

	tests := []struct {
		name           string
		mockError      error
		expectedStatus int
	}{
		{name: "Success", expectedStatus: http.StatusNoContent},
		{name: "Coupon in use", mockError: model.ErrCouponInUse, expectedStatus: http.StatusConflict},
		{name: "Not found", mockError: model.ErrCouponNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCouponService)
			routes := couponRoutes(NewCouponHandler(mockService, logger))

			mockService.On("Delete", mock.Anything, id).Return(tt.mockError)

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/coupons/"+id.String(), nil)
			w := httptest.NewRecorder()

			routes.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCouponHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	coupons := []model.Coupon{
		{ID: uuid.New(), Code: "SAVE100", CreatedAt: time.Now()},
		{ID: uuid.New(), Code: "WELCOME10", CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
		expectService  bool
		limit          int
		offset         int
	}{
		{
			name:           "Defaults",
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Custom pagination",
			queryParams:    "?limit=5&offset=10",
			expectedStatus: http.StatusOK,
			expectService:  true,
			limit:          5,
			offset:         10,
		},
		{
			name:           "Invalid limit",
			queryParams:    "?limit=abc",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCouponService)
			routes := couponRoutes(NewCouponHandler(mockService, logger))

			if tt.expectService {
				mockService.On("List", mock.Anything, tt.limit, tt.offset).Return(coupons, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/admin/coupons"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			routes.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
