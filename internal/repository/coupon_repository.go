package repository

import (
	"context"
	"errors"
	"fmt"

	"bundle-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const uniqueViolation = "23505"

const couponColumns = `
	id, code, description, discount_type, discount_value,
	min_order_value, max_discount, start_date, end_date, status,
	usage_limit, usage_count, usage_per_user, coupon_type,
	eligible_product_ids, eligible_category_ids,
	bogo_buy_quantity, bogo_get_quantity, bogo_discount_percent,
	max_discount_items, first_order_only, exclude_sale_items,
	created_at, updated_at
`

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue,
		&c.MinOrderValue, &c.MaxDiscount, &c.StartDate, &c.EndDate, &c.Status,
		&c.UsageLimit, &c.UsageCount, &c.UsagePerUser, &c.CouponType,
		&c.EligibleProductIDs, &c.EligibleCategoryIDs,
		&c.BOGOBuyQuantity, &c.BOGOGetQuantity, &c.BOGODiscountPercent,
		&c.MaxDiscountItems, &c.FirstOrderOnly, &c.ExcludeSaleItems,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByCode retrieves a coupon by case-insensitive code match.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE UPPER(code) = UPPER($1)`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon by code")
		return nil, fmt.Errorf("failed to query coupon by code: %w", err)
	}

	return c, nil
}

// GetByID retrieves a coupon by its ID.
func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("coupon_id", id.String()).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return c, nil
}

// List retrieves coupons with pagination support.
func (r *couponRepository) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, c *model.Coupon) error {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderValue, c.MaxDiscount, c.StartDate, c.EndDate, c.Status,
		c.UsageLimit, c.UsageCount, c.UsagePerUser, c.CouponType,
		c.EligibleProductIDs, c.EligibleCategoryIDs,
		c.BOGOBuyQuantity, c.BOGOGetQuantity, c.BOGODiscountPercent,
		c.MaxDiscountItems, c.FirstOrderOnly, c.ExcludeSaleItems,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().Str("code", c.Code).Msg("duplicate coupon code")
			return model.ErrCouponExists
		}
		r.logger.Error().Err(err).Str("code", c.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().Str("code", c.Code).Msg("coupon created successfully")

	return nil
}

// Update replaces the mutable fields of an existing coupon. The usage
// counter is not updated here; it only moves through IncrementUsage.
func (r *couponRepository) Update(ctx context.Context, c *model.Coupon) error {
	query := `
		UPDATE coupons SET
			description = $2, discount_type = $3, discount_value = $4,
			min_order_value = $5, max_discount = $6, start_date = $7,
			end_date = $8, status = $9, usage_limit = $10, usage_per_user = $11,
			coupon_type = $12, eligible_product_ids = $13, eligible_category_ids = $14,
			bogo_buy_quantity = $15, bogo_get_quantity = $16, bogo_discount_percent = $17,
			max_discount_items = $18, first_order_only = $19, exclude_sale_items = $20,
			updated_at = $21
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		c.ID, c.Description, c.DiscountType, c.DiscountValue,
		c.MinOrderValue, c.MaxDiscount, c.StartDate,
		c.EndDate, c.Status, c.UsageLimit, c.UsagePerUser,
		c.CouponType, c.EligibleProductIDs, c.EligibleCategoryIDs,
		c.BOGOBuyQuantity, c.BOGOGetQuantity, c.BOGODiscountPercent,
		c.MaxDiscountItems, c.FirstOrderOnly, c.ExcludeSaleItems,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to update coupon")
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	return nil
}

// Delete removes a coupon.
func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to delete coupon")
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCouponNotFound
	}

	r.logger.Debug().Str("coupon_id", id.String()).Msg("coupon deleted")

	return nil
}

// IncrementUsage atomically increments the coupon's redemption counter.
// The increment happens in SQL so concurrent redemptions of the same
// coupon cannot lose updates.
func (r *couponRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
	query := `
		UPDATE coupons
		SET usage_count = usage_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING usage_count
	`

	var count int
	if err := tx.QueryRow(ctx, query, id).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to increment coupon usage")
		return 0, fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	r.logger.Debug().
		Str("coupon_id", id.String()).
		Int("usage_count", count).
		Msg("coupon usage incremented")

	return count, nil
}

// CountRedemptions returns the total number of redemption records for the coupon.
func (r *couponRepository) CountRedemptions(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_id = $1`, id).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to count redemptions")
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}
