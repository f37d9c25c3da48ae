package coupon

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"bundle-kart/internal/model"
)

const dateFormat = "2 Jan 2006"

// Input carries everything a validation attempt needs, fully resolved by
// the caller: the cart snapshot, the user's order history facts, and the
// category lookup for category-based coupons. The engine performs no I/O.
type Input struct {
	// Subtotal is the full cart subtotal. Minimum-order checks always run
	// against this value, never against an eligible subset.
	Subtotal float64
	Items    []model.CartLineItem

	// CompletedOrders is the number of the user's prior orders with
	// completed payment. Consulted only for first-order-only coupons.
	CompletedOrders int

	// Redemptions is the number of times this user has already redeemed
	// this specific coupon.
	Redemptions int

	// Categories resolves bundle/product IDs to category IDs. Required for
	// category-based coupons.
	Categories model.CategoryLookup
}

// Engine validates coupons against cart snapshots and computes discounts.
// It is pure and stateless; safe for concurrent use.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a coupon validation engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger.With().Str("component", "coupon-engine").Logger(),
	}
}

// Validate runs the full eligibility pipeline for one validation attempt
// and computes the discount on success. Checks run in a fixed order and
// short-circuit on the first failure; the order is part of the contract
// because it decides which reason the user sees.
//
// Business-rule rejections come back as a ValidationResult with Valid=false.
// The returned error is non-nil only for caller contract violations such as
// an unknown coupon or discount type.
func (e *Engine) Validate(c *model.Coupon, in Input) (model.ValidationResult, error) {
	if c == nil {
		return model.Invalid(model.CodeCouponNotFound, "Invalid coupon code"), nil
	}

	if result, ok := e.checkStatus(c); !ok {
		return result, nil
	}

	if c.FirstOrderOnly && in.CompletedOrders > 0 {
		return model.Invalid(model.CodeFirstOrderOnly, "This coupon is only valid for first-time customers"), nil
	}

	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return model.Invalid(model.CodeUsageLimitReached, "This coupon has reached its usage limit"), nil
	}

	perUser := c.UsagePerUser
	if perUser <= 0 {
		perUser = 1
	}
	if in.Redemptions >= perUser {
		return model.Invalid(model.CodeUserLimitReached, fmt.Sprintf(
			"You have already used this coupon %d %s",
			in.Redemptions, pluralize(in.Redemptions, "time", "times"),
		)), nil
	}

	strat, err := strategyFor(c.CouponType)
	if err != nil {
		return model.ValidationResult{}, err
	}

	if c.CouponType != model.CouponCartWide && len(in.Items) == 0 {
		return model.Invalid(model.CodeCartItemsRequired, "Cart items required for this coupon type"), nil
	}

	el := strat.CheckEligibility(c, in)
	if !el.Valid {
		return model.Invalid(el.Code, el.Reason), nil
	}

	// Minimum order value is always measured against the full cart
	// subtotal, not the eligible subset.
	if result, ok := e.checkMinOrder(c, in.Subtotal); !ok {
		return result, nil
	}

	discount := strat.ComputeDiscount(c, el, in)

	e.logger.Debug().
		Str("code", c.Code).
		Str("coupon_type", string(c.CouponType)).
		Int64("discount", discount).
		Msg("coupon validated")

	return model.ValidationResult{
		Valid:    true,
		Code:     model.CodeValid,
		Discount: discount,
		Coupon:   c.View(),
	}, nil
}

// checkStatus trusts the stored status as authoritative; dates are used
// only to format the user-facing message, never to re-derive the status.
func (e *Engine) checkStatus(c *model.Coupon) (model.ValidationResult, bool) {
	switch c.Status {
	case model.StatusActive:
		return model.ValidationResult{}, true
	case model.StatusInactive:
		return model.Invalid(model.CodeCouponInvalid, "This coupon is currently inactive"), false
	case model.StatusExpired:
		reason := "This coupon has expired"
		if c.EndDate != nil {
			reason = fmt.Sprintf("This coupon expired on %s", c.EndDate.Format(dateFormat))
		}
		return model.Invalid(model.CodeCouponInvalid, reason), false
	case model.StatusScheduled:
		reason := fmt.Sprintf("This coupon will be available from %s", c.StartDate.Format(dateFormat))
		return model.Invalid(model.CodeCouponInvalid, reason), false
	}
	return model.Invalid(model.CodeCouponInvalid, "This coupon is not valid"), false
}

func (e *Engine) checkMinOrder(c *model.Coupon, subtotal float64) (model.ValidationResult, bool) {
	if c.MinOrderValue <= 0 || subtotal >= c.MinOrderValue {
		return model.ValidationResult{}, true
	}

	result := model.Invalid(model.CodeMinOrderNotMet, fmt.Sprintf(
		"Minimum order value of ₹%s required", formatAmount(c.MinOrderValue),
	))
	result.Shortfall = RoundCurrency(c.MinOrderValue - subtotal)
	return result, false
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
