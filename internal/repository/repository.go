package repository

import (
	"context"

	"bundle-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// GetByCode retrieves a coupon by case-insensitive code match.
	// Returns nil without error when no coupon exists.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByID retrieves a coupon by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)

	// List retrieves coupons with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Coupon, error)

	// Create inserts a new coupon.
	Create(ctx context.Context, c *model.Coupon) error

	// Update replaces the mutable fields of an existing coupon.
	Update(ctx context.Context, c *model.Coupon) error

	// Delete removes a coupon. Callers must reject deletion of coupons
	// that have redemptions before calling this.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage atomically increments the coupon's redemption counter
	// within the provided transaction and returns the new count.
	IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error)

	// CountRedemptions returns the total number of redemption records for
	// the coupon.
	CountRedemptions(ctx context.Context, id uuid.UUID) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// CreateRedemption records a coupon redemption within the provided transaction.
	CreateRedemption(ctx context.Context, tx pgx.Tx, r *model.Redemption) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// CountCompletedOrders returns how many of the user's orders have
	// completed payment.
	CountCompletedOrders(ctx context.Context, userID uuid.UUID) (int, error)

	// CountUserRedemptions returns how many times the user has redeemed
	// the given coupon.
	CountUserRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int, error)
}

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ValidateItemsExist checks that every cart line refers to an existing
	// product or bundle. Returns error if any reference is unknown.
	ValidateItemsExist(ctx context.Context, items []model.CartLineItem) error

	// ResolveCategories builds the catalogue-ID to category-ID lookup for
	// the given cart lines, covering both products and bundles.
	ResolveCategories(ctx context.Context, items []model.CartLineItem) (model.CategoryLookup, error)
}
