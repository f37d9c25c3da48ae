package service

import (
	"context"

	"bundle-kart/internal/model"

	"github.com/google/uuid"
)

// CouponService defines operations for coupon validation and administration.
type CouponService interface {
	// ValidateCoupon checks a raw coupon code against the user's cart and
	// history and returns the verdict with the computed discount.
	// Business-rule rejections come back inside the result; the error is
	// reserved for system failures.
	ValidateCoupon(ctx context.Context, req *model.CouponValidationRequest) (*model.ValidationResult, error)

	// Create registers a new coupon with its status derived from the
	// start date.
	Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error)

	// Update replaces a coupon's rule fields, recomputing status when the
	// dates change.
	Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error)

	// Delete removes a coupon. Coupons with redemption records are never
	// deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves coupons with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)
}

// ProductService defines operations for catalogue reads.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder creates a new order, validating and redeeming the
	// optional coupon code in the same transaction.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}
