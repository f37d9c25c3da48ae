package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"bundle-kart/internal/model"
	"bundle-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCoupon(code string) *model.Coupon {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Coupon{
		ID:            uuid.New(),
		Code:          code,
		Description:   "Integration test coupon",
		DiscountType:  model.DiscountFixed,
		DiscountValue: 100,
		StartDate:     now.Add(-24 * time.Hour),
		Status:        model.StatusActive,
		UsagePerUser:  1,
		CouponType:    model.CouponCartWide,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCouponRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCouponRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create and GetByCode is case-insensitive", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("SAVE100")
		require.NoError(t, repo.Create(ctx, c))

		got, err := repo.GetByCode(ctx, "save100")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, "SAVE100", got.Code)
	})

	t.Run("Create rejects duplicate codes", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, repo.Create(ctx, testCoupon("SAVE100")))

		dup := testCoupon("save100")
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.Equal(t, model.ErrCouponExists, err)
	})

	t.Run("GetByCode returns nil for unknown code", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		got, err := repo.GetByCode(ctx, "NOSUCHCODE")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Update preserves usage count", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("SAVE100")
		require.NoError(t, repo.Create(ctx, c))

		c.Description = "Updated"
		c.DiscountValue = 150
		c.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.Update(ctx, c))

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Updated", got.Description)
		assert.Equal(t, 150.0, got.DiscountValue)
		assert.Equal(t, 0, got.UsageCount)
	})

	t.Run("Update returns not found for unknown coupon", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("SAVE100")
		err := repo.Update(ctx, c)
		require.Error(t, err)
		assert.Equal(t, model.ErrCouponNotFound, err)
	})

	t.Run("Delete removes coupon", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("SAVE100")
		require.NoError(t, repo.Create(ctx, c))
		require.NoError(t, repo.Delete(ctx, c.ID))

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List orders by creation time descending", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		older := testCoupon("OLDER10")
		older.CreatedAt = time.Now().UTC().Add(-time.Hour)
		require.NoError(t, repo.Create(ctx, older))

		newer := testCoupon("NEWER10")
		require.NoError(t, repo.Create(ctx, newer))

		coupons, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, coupons, 2)
		assert.Equal(t, "NEWER10", coupons[0].Code)
	})

	t.Run("IncrementUsage is atomic under concurrency", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("CONCURRENT")
		require.NoError(t, repo.Create(ctx, c))

		const workers = 10
		var wg sync.WaitGroup
		errs := make(chan error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				tx, err := testDB.Pool.Begin(ctx)
				if err != nil {
					errs <- err
					return
				}
				if _, err := repo.IncrementUsage(ctx, tx, c.ID); err != nil {
					tx.Rollback(ctx)
					errs <- err
					return
				}
				errs <- tx.Commit(ctx)
			}()
		}

		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, workers, got.UsageCount)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	couponRepo := repository.NewCouponRepository(testDB.Pool, logger)

	ctx := context.Background()

	createOrder := func(t *testing.T, userID uuid.UUID, status string, c *model.Coupon, discount int64) *model.Order {
		t.Helper()

		now := time.Now().UTC()
		order := &model.Order{
			ID:            uuid.New(),
			UserID:        userID,
			Subtotal:      500,
			Discount:      discount,
			PaymentStatus: status,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if c != nil {
			order.CouponCode = &c.Code
		}

		tx, err := orderRepo.BeginTx(ctx)
		require.NoError(t, err)

		require.NoError(t, orderRepo.CreateOrder(ctx, tx, order))
		require.NoError(t, orderRepo.CreateOrderItems(ctx, tx, []model.OrderItem{
			{ID: uuid.New(), OrderID: order.ID, Type: model.LineItemProduct, CatalogID: "P001", Quantity: 2, Price: 250},
		}))

		if c != nil {
			require.NoError(t, orderRepo.CreateRedemption(ctx, tx, &model.Redemption{
				ID:       uuid.New(),
				CouponID: c.ID,
				OrderID:  order.ID,
				UserID:   userID,
				Discount: discount,
				At:       now,
			}))
			_, err = couponRepo.IncrementUsage(ctx, tx, c.ID)
			require.NoError(t, err)
		}

		require.NoError(t, tx.Commit(ctx))
		return order
	}

	t.Run("CreateOrder with redemption commits atomically", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("SAVE100")
		require.NoError(t, couponRepo.Create(ctx, c))

		userID := uuid.New()
		order := createOrder(t, userID, model.PaymentCompleted, c, 100)

		got, items, err := orderRepo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(100), got.Discount)
		assert.Len(t, items, 1)

		stored, err := couponRepo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.UsageCount)

		redemptions, err := couponRepo.CountRedemptions(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, redemptions)
	})

	t.Run("CountCompletedOrders ignores pending payments", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		userID := uuid.New()
		createOrder(t, userID, model.PaymentCompleted, nil, 0)
		createOrder(t, userID, model.PaymentPending, nil, 0)
		createOrder(t, uuid.New(), model.PaymentCompleted, nil, 0)

		count, err := orderRepo.CountCompletedOrders(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("CountUserRedemptions scopes to coupon and user", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		c := testCoupon("SAVE100")
		require.NoError(t, couponRepo.Create(ctx, c))
		other := testCoupon("OTHER10")
		require.NoError(t, couponRepo.Create(ctx, other))

		userID := uuid.New()
		createOrder(t, userID, model.PaymentCompleted, c, 100)
		createOrder(t, userID, model.PaymentCompleted, other, 50)
		createOrder(t, uuid.New(), model.PaymentCompleted, c, 100)

		count, err := orderRepo.CountUserRedemptions(ctx, c.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("GetByID returns nil for unknown order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		got, items, err := orderRepo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Nil(t, items)
	})
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("ValidateItemsExist accepts known products and bundles", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		err := repo.ValidateItemsExist(ctx, []model.CartLineItem{
			{ID: "l1", Type: model.LineItemProduct, ProductID: "P001", Quantity: 1, Price: 50},
			{ID: "l2", Type: model.LineItemBundle, BundleID: "B001", Quantity: 1, Price: 200},
		})
		require.NoError(t, err)
	})

	t.Run("ValidateItemsExist rejects unknown references", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		err := repo.ValidateItemsExist(ctx, []model.CartLineItem{
			{ID: "l1", Type: model.LineItemProduct, ProductID: "P999", Quantity: 1, Price: 50},
		})
		require.Error(t, err)
		assert.Equal(t, model.ErrProductNotFound, err)
	})

	t.Run("ResolveCategories covers products and bundles", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		lookup, err := repo.ResolveCategories(ctx, []model.CartLineItem{
			{ID: "l1", Type: model.LineItemProduct, ProductID: "P001", Quantity: 1, Price: 50},
			{ID: "l2", Type: model.LineItemProduct, ProductID: "P003", Quantity: 1, Price: 120},
			{ID: "l3", Type: model.LineItemBundle, BundleID: "B002", Quantity: 1, Price: 350},
		})
		require.NoError(t, err)
		assert.Equal(t, "electronics", lookup["P001"])
		assert.Equal(t, "furniture", lookup["P003"])
		assert.Equal(t, "electronics", lookup["B002"])
	})

	t.Run("GetAll returns seeded products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalogue(t, testDB.Pool)

		products, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, products, 5)
	})
}
