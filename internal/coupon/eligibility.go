package coupon

import (
	"bundle-kart/internal/model"
)

// EligibilityResult is the outcome of a type-specific eligibility check.
// EligibleItems is always a subset (by identity) of the input cart; items
// are filtered, never invented.
type EligibilityResult struct {
	Valid         bool
	Code          string
	Reason        string
	EligibleItems []model.CartLineItem

	// Populated only for bogo coupons, carrying the set math from the
	// quantity check into the discount computation.
	BOGO *BOGOResult
}

func eligibilityFailure(code, reason string) EligibilityResult {
	return EligibilityResult{Code: code, Reason: reason}
}

// filterByCatalogID keeps cart lines whose catalogue identifier (bundle ID
// for bundle lines, product ID for product lines) is in the given set.
// Lines of unrecognised type are excluded.
func filterByCatalogID(items []model.CartLineItem, ids map[string]struct{}) []model.CartLineItem {
	var eligible []model.CartLineItem
	for _, li := range items {
		id := li.CatalogID()
		if id == "" {
			continue
		}
		if _, ok := ids[id]; ok {
			eligible = append(eligible, li)
		}
	}
	return eligible
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ValidateProductSpecific narrows the cart to lines whose bundle or product
// ID appears in the coupon's eligible product list. Used for both
// product_specific and bogo coupons; BOGO applies its quantity threshold on
// top of the returned subset.
func ValidateProductSpecific(c *model.Coupon, items []model.CartLineItem) EligibilityResult {
	if len(c.EligibleProductIDs) == 0 {
		return eligibilityFailure(model.CodeNoEligibleItems, "No products are eligible for this coupon")
	}

	eligible := filterByCatalogID(items, idSet(c.EligibleProductIDs))
	if len(eligible) == 0 {
		return eligibilityFailure(model.CodeNoEligibleItems, "None of the items in your cart are eligible for this coupon")
	}

	return EligibilityResult{Valid: true, EligibleItems: eligible}
}

// ValidateCategoryBased narrows the cart to lines whose resolved category is
// in the coupon's eligible category list. Lines whose category cannot be
// resolved through the lookup are excluded. The lookup must be populated by
// the caller before invocation.
func ValidateCategoryBased(c *model.Coupon, items []model.CartLineItem, categories model.CategoryLookup) EligibilityResult {
	if len(c.EligibleCategoryIDs) == 0 {
		return eligibilityFailure(model.CodeNoEligibleCategories, "No categories are eligible for this coupon")
	}

	allowed := idSet(c.EligibleCategoryIDs)

	var eligible []model.CartLineItem
	for _, li := range items {
		catalogID := li.CatalogID()
		if catalogID == "" {
			continue
		}
		category, ok := categories[catalogID]
		if !ok {
			continue
		}
		if _, ok := allowed[category]; ok {
			eligible = append(eligible, li)
		}
	}

	if len(eligible) == 0 {
		return eligibilityFailure(model.CodeNoEligibleCategories, "None of the items in your cart belong to eligible categories")
	}

	return EligibilityResult{Valid: true, EligibleItems: eligible}
}
