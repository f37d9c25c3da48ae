package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bundle-kart/internal/coupon"
	"bundle-kart/internal/model"
	"bundle-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo  repository.CouponRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	engine      *coupon.Engine
	now         func() time.Time
	logger      zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	engine *coupon.Engine,
	logger zerolog.Logger,
) CouponService {
	return &couponService{
		couponRepo:  couponRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		engine:      engine,
		now:         time.Now,
		logger:      logger.With().Str("service", "coupon").Logger(),
	}
}

// ValidateCoupon checks a raw coupon code against the user's cart and
// history. It resolves everything the engine needs up front (coupon record,
// usage facts, category lookup) so the engine itself stays free of I/O.
func (s *couponService) ValidateCoupon(ctx context.Context, req *model.CouponValidationRequest) (*model.ValidationResult, error) {
	if req == nil {
		return nil, fmt.Errorf("validation request is nil")
	}

	code, err := coupon.NormalizeCode(req.Code)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			result := model.Invalid(domainErr.Code, domainErr.Message)
			return &result, nil
		}
		return nil, err
	}

	c, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}

	in := coupon.Input{
		Subtotal: model.CartSubtotal(req.Items),
		Items:    req.Items,
	}

	if c != nil {
		if c.FirstOrderOnly {
			completed, err := s.orderRepo.CountCompletedOrders(ctx, req.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to load order history: %w", err)
			}
			in.CompletedOrders = completed
		}

		redemptions, err := s.orderRepo.CountUserRedemptions(ctx, c.ID, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load redemption history: %w", err)
		}
		in.Redemptions = redemptions

		if c.CouponType == model.CouponCategoryBased && len(req.Items) > 0 {
			categories, err := s.productRepo.ResolveCategories(ctx, req.Items)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve item categories: %w", err)
			}
			in.Categories = categories
		}
	}

	result, err := s.engine.Validate(c, in)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("coupon engine rejected record")
		return nil, fmt.Errorf("coupon validation failed: %w", err)
	}

	if !result.Valid {
		s.logger.Debug().
			Str("code", code).
			Str("verdict", result.Code).
			Msg("coupon rejected")
	} else {
		s.logger.Info().
			Str("code", code).
			Int64("discount", result.Discount).
			Msg("coupon validated")
	}

	return &result, nil
}

// Create registers a new coupon. Status is derived from the start date
// unless the request pins it explicitly.
func (s *couponService) Create(ctx context.Context, req *model.CouponRequest) (*model.Coupon, error) {
	c, err := s.buildCoupon(req)
	if err != nil {
		return nil, err
	}

	c.ID = uuid.New()
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.couponRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("code", c.Code).
		Str("coupon_type", string(c.CouponType)).
		Str("status", string(c.Status)).
		Msg("coupon created")

	return c, nil
}

// Update replaces a coupon's rule fields. The stored usage counter is
// preserved; status is recomputed from the new dates unless pinned.
func (s *couponService) Update(ctx context.Context, id uuid.UUID, req *model.CouponRequest) (*model.Coupon, error) {
	existing, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, model.ErrCouponNotFound
	}

	c, err := s.buildCoupon(req)
	if err != nil {
		return nil, err
	}

	c.ID = existing.ID
	c.Code = existing.Code
	c.UsageCount = existing.UsageCount
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()

	if err := s.couponRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("code", c.Code).
		Str("status", string(c.Status)).
		Msg("coupon updated")

	return c, nil
}

// Delete removes a coupon unless it has ever been redeemed.
func (s *couponService) Delete(ctx context.Context, id uuid.UUID) error {
	redemptions, err := s.couponRepo.CountRedemptions(ctx, id)
	if err != nil {
		return err
	}
	if redemptions > 0 {
		s.logger.Warn().
			Str("coupon_id", id.String()).
			Int("redemptions", redemptions).
			Msg("refusing to delete redeemed coupon")
		return model.ErrCouponInUse
	}

	return s.couponRepo.Delete(ctx, id)
}

// List retrieves coupons with pagination.
func (s *couponService) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.couponRepo.List(ctx, limit, offset)
}

// buildCoupon validates an administrative request and assembles the coupon
// record, deriving the status from its dates.
func (s *couponService) buildCoupon(req *model.CouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, fmt.Errorf("coupon request is nil")
	}

	code, err := coupon.NormalizeCode(req.Code)
	if err != nil {
		return nil, err
	}

	if req.DiscountType != model.DiscountPercent && req.DiscountType != model.DiscountFixed {
		return nil, fmt.Errorf("invalid discount type %q", req.DiscountType)
	}
	if req.DiscountValue <= 0 {
		return nil, fmt.Errorf("discount value must be positive")
	}
	if req.DiscountType == model.DiscountPercent && req.DiscountValue > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}

	switch req.CouponType {
	case model.CouponCartWide:
	case model.CouponProductSpecific:
		if len(req.EligibleProductIDs) == 0 {
			return nil, fmt.Errorf("product_specific coupons require eligible product IDs")
		}
	case model.CouponCategoryBased:
		if len(req.EligibleCategoryIDs) == 0 {
			return nil, fmt.Errorf("category_based coupons require eligible category IDs")
		}
	case model.CouponBOGO:
		if len(req.EligibleProductIDs) == 0 {
			return nil, fmt.Errorf("bogo coupons require eligible product IDs")
		}
		if req.BOGOBuyQuantity <= 0 || req.BOGOGetQuantity <= 0 {
			return nil, fmt.Errorf("bogo coupons require positive buy and get quantities")
		}
	default:
		return nil, fmt.Errorf("invalid coupon type %q", req.CouponType)
	}

	status := req.Status
	if status == "" {
		status = s.deriveStatus(req.StartDate, req.EndDate)
	}

	usagePerUser := req.UsagePerUser
	if usagePerUser <= 0 {
		usagePerUser = 1
	}

	bogoPercent := req.BOGODiscountPercent
	if req.CouponType == model.CouponBOGO && bogoPercent <= 0 {
		bogoPercent = 100
	}

	return &model.Coupon{
		Code:                code,
		Description:         req.Description,
		DiscountType:        req.DiscountType,
		DiscountValue:       req.DiscountValue,
		MinOrderValue:       req.MinOrderValue,
		MaxDiscount:         req.MaxDiscount,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		Status:              status,
		UsageLimit:          req.UsageLimit,
		UsagePerUser:        usagePerUser,
		CouponType:          req.CouponType,
		EligibleProductIDs:  req.EligibleProductIDs,
		EligibleCategoryIDs: req.EligibleCategoryIDs,
		BOGOBuyQuantity:     req.BOGOBuyQuantity,
		BOGOGetQuantity:     req.BOGOGetQuantity,
		BOGODiscountPercent: bogoPercent,
		MaxDiscountItems:    req.MaxDiscountItems,
		FirstOrderOnly:      req.FirstOrderOnly,
		ExcludeSaleItems:    req.ExcludeSaleItems,
	}, nil
}

// deriveStatus computes the lifecycle status from the validity window at
// administration time. Validation never derives status; a periodic job is
// expected to keep stored statuses in sync as dates pass.
func (s *couponService) deriveStatus(start time.Time, end *time.Time) model.CouponStatus {
	now := s.now()
	if end != nil && end.Before(now) {
		return model.StatusExpired
	}
	return model.StatusForStart(start, now)
}
