package model

import "github.com/google/uuid"

// Verdict codes returned by coupon validation. Every failure carries one of
// these alongside a complete, display-ready reason sentence.
const (
	CodeValid                = "VALID"
	CodeInvalidFormat        = "INVALID_FORMAT"
	CodeCouponNotFound       = "COUPON_NOT_FOUND"
	CodeCouponInvalid        = "COUPON_INVALID"
	CodeFirstOrderOnly       = "FIRST_ORDER_ONLY"
	CodeUsageLimitReached    = "USAGE_LIMIT_REACHED"
	CodeUserLimitReached     = "USER_LIMIT_REACHED"
	CodeCartItemsRequired    = "CART_ITEMS_REQUIRED"
	CodeNoEligibleItems      = "NO_ELIGIBLE_ITEMS"
	CodeNoEligibleCategories = "NO_ELIGIBLE_CATEGORIES"
	CodeBOGONotMet           = "BOGO_NOT_MET"
	CodeMinOrderNotMet       = "MIN_ORDER_NOT_MET"
)

// ValidationResult is the engine's verdict on a single validation attempt.
// Discount is a non-negative whole currency amount. Shortfall is populated
// only for MIN_ORDER_NOT_MET failures.
type ValidationResult struct {
	Valid     bool           `json:"valid"`
	Code      string         `json:"code"`
	Reason    string         `json:"reason,omitempty"`
	Discount  int64          `json:"discount,omitempty"`
	Shortfall int64          `json:"shortfall,omitempty"`
	Coupon    *AppliedCoupon `json:"coupon,omitempty"`
}

// Invalid builds a failed validation result.
func Invalid(code, reason string) ValidationResult {
	return ValidationResult{Code: code, Reason: reason}
}

// CouponValidationRequest is the payload for a validation attempt: the raw
// code, the user attempting redemption, and a snapshot of the cart.
type CouponValidationRequest struct {
	Code   string         `json:"code"`
	UserID uuid.UUID      `json:"userId"`
	Items  []CartLineItem `json:"items"`
}
