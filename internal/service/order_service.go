package service

import (
	"context"
	"fmt"
	"time"

	"bundle-kart/internal/model"
	"bundle-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	coupons     CouponService
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	coupons CouponService,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		coupons:     coupons,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder creates a new order. When a coupon code is supplied the whole
// redemption happens here: validation, discount, redemption record, and the
// atomic usage-count increment, all committed in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	if err := s.productRepo.ValidateItemsExist(ctx, req.Items); err != nil {
		s.logger.Warn().
			Int("item_count", len(req.Items)).
			Err(err).
			Msg("catalogue validation failed")
		return nil, err
	}

	subtotal := model.CartSubtotal(req.Items)

	var discount int64
	var redeemed *model.Coupon

	if req.CouponCode != nil && *req.CouponCode != "" {
		result, err := s.coupons.ValidateCoupon(ctx, &model.CouponValidationRequest{
			Code:   *req.CouponCode,
			UserID: req.UserID,
			Items:  req.Items,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to validate coupon: %w", err)
		}
		if !result.Valid {
			s.logger.Warn().
				Str("coupon_code", *req.CouponCode).
				Str("verdict", result.Code).
				Msg("coupon rejected at checkout")
			return nil, model.NewDomainError(result.Code, result.Reason)
		}

		discount = result.Discount

		redeemed, err = s.couponRepo.GetByCode(ctx, result.Coupon.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to load coupon for redemption: %w", err)
		}
		if redeemed == nil {
			return nil, fmt.Errorf("coupon %s vanished between validation and redemption", result.Coupon.Code)
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        req.UserID,
		CouponCode:    req.CouponCode,
		Subtotal:      subtotal,
		Discount:      discount,
		PaymentStatus: model.PaymentCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Type:      item.Type,
			CatalogID: item.CatalogID(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if redeemed != nil {
		redemption := &model.Redemption{
			ID:       uuid.New(),
			CouponID: redeemed.ID,
			OrderID:  order.ID,
			UserID:   req.UserID,
			Discount: discount,
			At:       now,
		}
		if err = s.orderRepo.CreateRedemption(ctx, tx, redemption); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("coupon_code", redeemed.Code).
				Msg("failed to record redemption")
			return nil, fmt.Errorf("failed to record redemption: %w", err)
		}

		if _, err = s.couponRepo.IncrementUsage(ctx, tx, redeemed.ID); err != nil {
			s.logger.Error().
				Err(err).
				Str("coupon_code", redeemed.Code).
				Msg("failed to increment coupon usage")
			return nil, fmt.Errorf("failed to increment coupon usage: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Int64("discount", discount).
		Msg("order created successfully")

	return &model.OrderResponse{
		ID:       order.ID,
		Items:    orderItems,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - float64(discount),
	}, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return &model.OrderResponse{
		ID:       order.ID,
		Items:    items,
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Total:    order.Subtotal - float64(order.Discount),
	}, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	if req.UserID == uuid.Nil {
		return fmt.Errorf("user ID is required")
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.CatalogID() == "" {
			return fmt.Errorf("item %d: bundle or product ID is required", i)
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("catalog_id", item.CatalogID()).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
