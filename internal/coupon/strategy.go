package coupon

import (
	"fmt"

	"bundle-kart/internal/model"
)

// strategy couples the eligibility check and the discount computation for
// one coupon type. A strategy is selected once per validation attempt after
// the coupon record is loaded.
type strategy interface {
	// CheckEligibility narrows the cart to the items the coupon applies to
	// and verifies the type-specific preconditions.
	CheckEligibility(c *model.Coupon, in Input) EligibilityResult

	// ComputeDiscount computes the rounded discount for a cart that has
	// already passed the eligibility check.
	ComputeDiscount(c *model.Coupon, el EligibilityResult, in Input) int64
}

// strategyFor selects the strategy for the given coupon type. An unknown
// type is a caller contract violation, not a user-facing validation failure.
func strategyFor(t model.CouponType) (strategy, error) {
	switch t {
	case model.CouponCartWide:
		return cartWideStrategy{}, nil
	case model.CouponProductSpecific:
		return productSpecificStrategy{}, nil
	case model.CouponCategoryBased:
		return categoryBasedStrategy{}, nil
	case model.CouponBOGO:
		return bogoStrategy{}, nil
	}
	return nil, fmt.Errorf("unknown coupon type %q", t)
}

// cartWideStrategy applies the discount to the whole cart; every item is
// implicitly eligible.
type cartWideStrategy struct{}

func (cartWideStrategy) CheckEligibility(_ *model.Coupon, in Input) EligibilityResult {
	return EligibilityResult{Valid: true, EligibleItems: in.Items}
}

func (cartWideStrategy) ComputeDiscount(c *model.Coupon, _ EligibilityResult, in Input) int64 {
	return CalculateDiscount(c, in.Subtotal)
}

type productSpecificStrategy struct{}

func (productSpecificStrategy) CheckEligibility(c *model.Coupon, in Input) EligibilityResult {
	return ValidateProductSpecific(c, in.Items)
}

func (productSpecificStrategy) ComputeDiscount(c *model.Coupon, el EligibilityResult, _ Input) int64 {
	return CalculateItemBasedDiscount(c, el.EligibleItems, c.MaxDiscountItems)
}

type categoryBasedStrategy struct{}

func (categoryBasedStrategy) CheckEligibility(c *model.Coupon, in Input) EligibilityResult {
	return ValidateCategoryBased(c, in.Items, in.Categories)
}

func (categoryBasedStrategy) ComputeDiscount(c *model.Coupon, el EligibilityResult, _ Input) int64 {
	return CalculateItemBasedDiscount(c, el.EligibleItems, c.MaxDiscountItems)
}

// bogoStrategy shares the product filter with productSpecificStrategy and
// layers the buy-X-get-Y quantity threshold on top.
type bogoStrategy struct{}

func (bogoStrategy) CheckEligibility(c *model.Coupon, in Input) EligibilityResult {
	el := ValidateProductSpecific(c, in.Items)
	if !el.Valid {
		return el
	}

	bogo := ValidateBOGO(c, el.EligibleItems)
	if !bogo.Valid {
		return eligibilityFailure(bogo.Code, bogo.Reason)
	}

	el.BOGO = &bogo
	return el
}

func (bogoStrategy) ComputeDiscount(c *model.Coupon, el EligibilityResult, _ Input) int64 {
	if el.BOGO == nil {
		return 0
	}
	return CalculateBOGODiscount(c, el.EligibleItems, el.BOGO.Sets, el.BOGO.FreeItems)
}
