package model

// LineItemType distinguishes bundle lines from single-product lines.
type LineItemType string

const (
	LineItemBundle  LineItemType = "bundle"
	LineItemProduct LineItemType = "product"
)

// CartLineItem is one entry in the cart being validated. The coupon engine
// never mutates line items, it only filters and copies them.
type CartLineItem struct {
	ID        string       `json:"id"`
	Type      LineItemType `json:"type"`
	BundleID  string       `json:"bundleId,omitempty"`
	ProductID string       `json:"productId,omitempty"`
	Quantity  int          `json:"quantity"`
	Price     float64      `json:"price"`
}

// CatalogID returns the catalogue identifier the line refers to: the bundle
// ID for bundle lines, the product ID for product lines. Lines of neither
// recognised type return an empty string.
func (li CartLineItem) CatalogID() string {
	switch li.Type {
	case LineItemBundle:
		return li.BundleID
	case LineItemProduct:
		return li.ProductID
	}
	return ""
}

// LineTotal returns the line subtotal (unit price times quantity).
func (li CartLineItem) LineTotal() float64 {
	return li.Price * float64(li.Quantity)
}

// CartSubtotal sums the line totals of the given items.
func CartSubtotal(items []CartLineItem) float64 {
	var total float64
	for _, li := range items {
		total += li.LineTotal()
	}
	return total
}

// CategoryLookup resolves a catalogue identifier (bundle or product ID) to
// its category ID. It must be fully populated by the caller before
// category-based validation runs; the engine has no way to resolve
// categories itself.
type CategoryLookup map[string]string
