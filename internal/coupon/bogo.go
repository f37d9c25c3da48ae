package coupon

import (
	"fmt"

	"bundle-kart/internal/model"
)

// BOGOResult is the outcome of the buy-X-get-Y quantity check.
// Sets = floor(totalEligibleQty / (buy + get)) and FreeItems = Sets * get;
// both are zero when the threshold is unmet.
type BOGOResult struct {
	Valid     bool
	Code      string
	Reason    string
	Sets      int
	FreeItems int
}

// ValidateBOGO checks whether the eligible items carry enough quantity to
// unlock the coupon's buy-X-get-Y offer.
func ValidateBOGO(c *model.Coupon, eligible []model.CartLineItem) BOGOResult {
	buyQty := c.BOGOBuyQuantity
	getQty := c.BOGOGetQuantity
	if buyQty <= 0 || getQty <= 0 {
		return BOGOResult{Code: model.CodeBOGONotMet, Reason: "Invalid BOGO configuration"}
	}

	totalQty := 0
	for _, li := range eligible {
		totalQty += li.Quantity
	}

	requiredQty := buyQty + getQty
	if totalQty < requiredQty {
		missing := requiredQty - totalQty
		return BOGOResult{
			Code: model.CodeBOGONotMet,
			Reason: fmt.Sprintf(
				"Add %d more eligible %s to use this Buy %d Get %d offer",
				missing, pluralize(missing, "item", "items"), buyQty, getQty,
			),
		}
	}

	sets := totalQty / requiredQty
	return BOGOResult{
		Valid:     true,
		Sets:      sets,
		FreeItems: sets * getQty,
	}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
