package repository

import (
	"context"
	"errors"
	"fmt"

	"bundle-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, coupon_code, subtotal, discount, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID, order.CouponCode, order.Subtotal,
		order.Discount, order.PaymentStatus, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, item_type, catalog_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.Type, item.CatalogID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("catalog_id", items[i].CatalogID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// CreateRedemption records a coupon redemption within the provided transaction.
func (r *orderRepository) CreateRedemption(ctx context.Context, tx pgx.Tx, redemption *model.Redemption) error {
	query := `
		INSERT INTO coupon_redemptions (id, coupon_id, order_id, user_id, discount, redeemed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		redemption.ID, redemption.CouponID, redemption.OrderID,
		redemption.UserID, redemption.Discount, redemption.At,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_id", redemption.CouponID.String()).
			Str("order_id", redemption.OrderID.String()).
			Msg("failed to create redemption record")
		return fmt.Errorf("failed to create redemption record: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT id, user_id, coupon_code, subtotal, discount, payment_status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.UserID,
		&order.CouponCode,
		&order.Subtotal,
		&order.Discount,
		&order.PaymentStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, item_type, catalog_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.Type, &item.CatalogID, &item.Quantity, &item.Price)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, items, nil
}

// CountCompletedOrders returns how many of the user's orders have completed payment.
func (r *orderRepository) CountCompletedOrders(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND payment_status = $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID, model.PaymentCompleted).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count completed orders")
		return 0, fmt.Errorf("failed to count completed orders: %w", err)
	}

	return count, nil
}

// CountUserRedemptions returns how many times the user has redeemed the given coupon.
func (r *orderRepository) CountUserRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_id = $1 AND user_id = $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, couponID, userID).Scan(&count); err != nil {
		r.logger.Error().
			Err(err).
			Str("coupon_id", couponID.String()).
			Str("user_id", userID.String()).
			Msg("failed to count user redemptions")
		return 0, fmt.Errorf("failed to count user redemptions: %w", err)
	}

	return count, nil
}
