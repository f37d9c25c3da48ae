package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType determines how a coupon's discount value is interpreted.
type DiscountType string

const (
	// DiscountPercent treats DiscountValue as a percentage (0-100).
	DiscountPercent DiscountType = "percent"
	// DiscountFixed treats DiscountValue as a flat currency amount.
	DiscountFixed DiscountType = "fixed"
)

// CouponType selects which eligibility and discount strategy applies.
type CouponType string

const (
	CouponCartWide        CouponType = "cart_wide"
	CouponProductSpecific CouponType = "product_specific"
	CouponCategoryBased   CouponType = "category_based"
	CouponBOGO            CouponType = "bogo"
)

// CouponStatus is the authoritative lifecycle state of a coupon.
// Dates on the record are informational; validation trusts the status as-is.
type CouponStatus string

const (
	StatusActive    CouponStatus = "active"
	StatusInactive  CouponStatus = "inactive"
	StatusExpired   CouponStatus = "expired"
	StatusScheduled CouponStatus = "scheduled"
)

// Coupon represents a promotional rule.
//
// Optional numeric constraints use zero as "unset": a MinOrderValue of 0
// means no minimum, a UsageLimit of 0 means unlimited, a MaxDiscountItems
// of 0 means every eligible unit is discounted.
type Coupon struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Code          string       `json:"code" db:"code"`
	Description   string       `json:"description" db:"description"`
	DiscountType  DiscountType `json:"discountType" db:"discount_type"`
	DiscountValue float64      `json:"discountValue" db:"discount_value"`
	MinOrderValue float64      `json:"minOrderValue,omitempty" db:"min_order_value"`
	MaxDiscount   float64      `json:"maxDiscount,omitempty" db:"max_discount"`
	StartDate     time.Time    `json:"startDate" db:"start_date"`
	EndDate       *time.Time   `json:"endDate,omitempty" db:"end_date"`
	Status        CouponStatus `json:"status" db:"status"`
	UsageLimit    int          `json:"usageLimit,omitempty" db:"usage_limit"`
	UsageCount    int          `json:"usageCount" db:"usage_count"`
	UsagePerUser  int          `json:"usagePerUser" db:"usage_per_user"`
	CouponType    CouponType   `json:"couponType" db:"coupon_type"`

	// Relevant only for product_specific and bogo coupons.
	EligibleProductIDs []string `json:"eligibleProductIds,omitempty" db:"eligible_product_ids"`
	// Relevant only for category_based coupons.
	EligibleCategoryIDs []string `json:"eligibleCategoryIds,omitempty" db:"eligible_category_ids"`

	BOGOBuyQuantity     int     `json:"bogoBuyQuantity,omitempty" db:"bogo_buy_quantity"`
	BOGOGetQuantity     int     `json:"bogoGetQuantity,omitempty" db:"bogo_get_quantity"`
	BOGODiscountPercent float64 `json:"bogoDiscountPercent,omitempty" db:"bogo_discount_percent"`

	MaxDiscountItems int  `json:"maxDiscountItems,omitempty" db:"max_discount_items"`
	FirstOrderOnly   bool `json:"firstOrderOnly" db:"first_order_only"`

	// Declared on the record and round-tripped through create/update, but
	// not enforced by any validation or discount rule.
	ExcludeSaleItems bool `json:"excludeSaleItems" db:"exclude_sale_items"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AppliedCoupon is the client-facing view of a coupon returned alongside a
// successful validation.
type AppliedCoupon struct {
	Code          string       `json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	CouponType    CouponType   `json:"couponType"`
}

// View returns the client-facing view of the coupon.
func (c *Coupon) View() *AppliedCoupon {
	return &AppliedCoupon{
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		CouponType:    c.CouponType,
	}
}

// CouponRequest is the administrative payload for creating or updating a
// coupon. ID, usage count and timestamps are owned by the server; Status is
// derived from the dates unless explicitly supplied (e.g. to deactivate).
type CouponRequest struct {
	Code                string       `json:"code"`
	Description         string       `json:"description"`
	DiscountType        DiscountType `json:"discountType"`
	DiscountValue       float64      `json:"discountValue"`
	MinOrderValue       float64      `json:"minOrderValue,omitempty"`
	MaxDiscount         float64      `json:"maxDiscount,omitempty"`
	StartDate           time.Time    `json:"startDate"`
	EndDate             *time.Time   `json:"endDate,omitempty"`
	Status              CouponStatus `json:"status,omitempty"`
	UsageLimit          int          `json:"usageLimit,omitempty"`
	UsagePerUser        int          `json:"usagePerUser,omitempty"`
	CouponType          CouponType   `json:"couponType"`
	EligibleProductIDs  []string     `json:"eligibleProductIds,omitempty"`
	EligibleCategoryIDs []string     `json:"eligibleCategoryIds,omitempty"`
	BOGOBuyQuantity     int          `json:"bogoBuyQuantity,omitempty"`
	BOGOGetQuantity     int          `json:"bogoGetQuantity,omitempty"`
	BOGODiscountPercent float64      `json:"bogoDiscountPercent,omitempty"`
	MaxDiscountItems    int          `json:"maxDiscountItems,omitempty"`
	FirstOrderOnly      bool         `json:"firstOrderOnly"`
	ExcludeSaleItems    bool         `json:"excludeSaleItems"`
}

// StatusForStart derives the lifecycle status of a newly created or
// re-dated coupon: scheduled when the start date is still in the future,
// active otherwise. Validation never calls this; the stored status is
// authoritative at validation time.
func StatusForStart(start, now time.Time) CouponStatus {
	startDay := start.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)
	if startDay.After(today) {
		return StatusScheduled
	}
	return StatusActive
}
