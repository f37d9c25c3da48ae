package coupon

import (
	"sort"

	"github.com/shopspring/decimal"

	"bundle-kart/internal/model"
)

var oneHundred = decimal.NewFromInt(100)

// roundAmount rounds a monetary amount to the nearest whole currency unit
// (half rounds up) and clamps it to be non-negative.
func roundAmount(d decimal.Decimal) int64 {
	amount := d.Round(0).IntPart()
	if amount < 0 {
		return 0
	}
	return amount
}

// RoundCurrency rounds a float currency amount to the nearest whole unit.
func RoundCurrency(v float64) int64 {
	return roundAmount(decimal.NewFromFloat(v))
}

// discountOn applies the coupon's percent/fixed rule to the given base
// amount. Percent discounts are capped by MaxDiscount when set; fixed
// discounts can never exceed the base they apply to.
func discountOn(c *model.Coupon, base float64) decimal.Decimal {
	if base <= 0 {
		return decimal.Zero
	}

	baseAmount := decimal.NewFromFloat(base)

	switch c.DiscountType {
	case model.DiscountPercent:
		raw := baseAmount.Mul(decimal.NewFromFloat(c.DiscountValue)).Div(oneHundred)
		if c.MaxDiscount > 0 {
			cap := decimal.NewFromFloat(c.MaxDiscount)
			if raw.GreaterThan(cap) {
				return cap
			}
		}
		return raw
	case model.DiscountFixed:
		value := decimal.NewFromFloat(c.DiscountValue)
		if value.GreaterThan(baseAmount) {
			return baseAmount
		}
		return value
	}

	return decimal.Zero
}

// CalculateDiscount computes the cart-wide discount against the full cart
// subtotal, rounded to the nearest whole currency unit. Returns 0 for a nil
// coupon or non-positive subtotal.
func CalculateDiscount(c *model.Coupon, cartSubtotal float64) int64 {
	if c == nil {
		return 0
	}
	return roundAmount(discountOn(c, cartSubtotal))
}

// unit is a single unit of quantity flattened out of a cart line.
type unit struct {
	price float64
}

func flattenUnits(items []model.CartLineItem) []unit {
	var units []unit
	for _, li := range items {
		for i := 0; i < li.Quantity; i++ {
			units = append(units, unit{price: li.Price})
		}
	}
	return units
}

func unitSubtotal(units []unit) float64 {
	var total float64
	for _, u := range units {
		total += u.price
	}
	return total
}

// CalculateItemBasedDiscount computes the discount for product_specific and
// category_based coupons against the eligible items only. When maxItems > 0
// the discount is capped to that many units, chosen most-expensive-first so
// the cap works in the customer's favour.
func CalculateItemBasedDiscount(c *model.Coupon, eligible []model.CartLineItem, maxItems int) int64 {
	if c == nil || len(eligible) == 0 {
		return 0
	}

	units := flattenUnits(eligible)
	if maxItems > 0 && maxItems < len(units) {
		sort.SliceStable(units, func(i, j int) bool {
			return units[i].price > units[j].price
		})
		units = units[:maxItems]
	}

	return roundAmount(discountOn(c, unitSubtotal(units)))
}

// CalculateBOGODiscount computes the discount for a BOGO coupon: the
// cheapest freeItems units among the eligible items are discounted at the
// coupon's BOGO percentage (default 100, fully free). Cheapest-first is the
// retail convention for the "get" side of a buy-X-get-Y offer.
func CalculateBOGODiscount(c *model.Coupon, eligible []model.CartLineItem, sets, freeItems int) int64 {
	if c == nil || sets <= 0 || freeItems <= 0 {
		return 0
	}

	units := flattenUnits(eligible)
	if len(units) == 0 {
		return 0
	}

	sort.SliceStable(units, func(i, j int) bool {
		return units[i].price < units[j].price
	})

	if freeItems > len(units) {
		freeItems = len(units)
	}

	percent := c.BOGODiscountPercent
	if percent <= 0 {
		percent = 100
	}
	rate := decimal.NewFromFloat(percent).Div(oneHundred)

	total := decimal.Zero
	for _, u := range units[:freeItems] {
		total = total.Add(decimal.NewFromFloat(u.price).Mul(rate))
	}

	return roundAmount(total)
}
