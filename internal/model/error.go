package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeCouponExists    = "COUPON_EXISTS"
	ErrCodeCouponInUse     = "COUPON_IN_USE"
	ErrCodeCouponNotFound  = "COUPON_NOT_FOUND"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrCouponExists    = NewDomainError(ErrCodeCouponExists, "A coupon with this code already exists")
	ErrCouponInUse     = NewDomainError(ErrCodeCouponInUse, "Coupons with redemptions cannot be deleted")
	ErrCouponNotFound  = NewDomainError(ErrCodeCouponNotFound, "Coupon not found")
)
