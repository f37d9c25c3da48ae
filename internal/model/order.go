package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values recorded on orders. Only completed orders count
// towards first-order restrictions.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Order represents a customer order.
type Order struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"userId" db:"user_id"`
	CouponCode    *string   `json:"couponCode,omitempty" db:"coupon_code"`
	Subtotal      float64   `json:"subtotal" db:"subtotal"`
	Discount      int64     `json:"discount" db:"discount"`
	PaymentStatus string    `json:"paymentStatus" db:"payment_status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID    `json:"-" db:"id"`
	OrderID   uuid.UUID    `json:"-" db:"order_id"`
	Type      LineItemType `json:"type" db:"item_type"`
	CatalogID string       `json:"catalogId" db:"catalog_id"`
	Quantity  int          `json:"quantity" db:"quantity"`
	Price     float64      `json:"price" db:"price"`
}

// Redemption links a successful order to the coupon it redeemed. Once a
// coupon has redemptions it can no longer be deleted.
type Redemption struct {
	ID       uuid.UUID `json:"id" db:"id"`
	CouponID uuid.UUID `json:"couponId" db:"coupon_id"`
	OrderID  uuid.UUID `json:"orderId" db:"order_id"`
	UserID   uuid.UUID `json:"userId" db:"user_id"`
	Discount int64     `json:"discount" db:"discount"`
	At       time.Time `json:"redeemedAt" db:"redeemed_at"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	UserID     uuid.UUID      `json:"userId"`
	CouponCode *string        `json:"couponCode,omitempty"`
	Items      []CartLineItem `json:"items"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID       uuid.UUID   `json:"id"`
	Items    []OrderItem `json:"items"`
	Subtotal float64     `json:"subtotal"`
	Discount int64       `json:"discount"`
	Total    float64     `json:"total"`
}
