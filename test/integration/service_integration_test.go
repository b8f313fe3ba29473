package integration

import (
	"context"
	"sync"
	"testing"

	"tarha-store/internal/cache"
	"tarha-store/internal/events"
	"tarha-store/internal/model"
	"tarha-store/internal/regionfees"
	"tarha-store/internal/repository"
	"tarha-store/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	carts    service.CartService
	promos   service.PromoService
	delivery service.DeliveryService
	checkout service.CheckoutService
}

func newServices(pool *pgxpool.Pool) *services {
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	promoRepo := repository.NewPromoRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)

	cartCache := cache.NewNopCache()

	feeTable := regionfees.NewTable(regionfees.Document{
		Fees:                  map[string]float64{"cairo": 45},
		DefaultFee:            60,
		FreeDeliveryThreshold: 600,
	})

	carts := service.NewCartService(cartRepo, inventoryRepo, productRepo, cartCache, nil, logger)
	promos := service.NewPromoService(promoRepo, orderRepo, nil, logger)
	delivery := service.NewDeliveryService(feeTable, regionfees.NewFileLoader(logger), "", logger)
	checkout := service.NewCheckoutService(orderRepo, cartRepo, profileRepo, promos, delivery,
		cartCache, events.NewNopPublisher(), nil, logger)

	return &services{carts: carts, promos: promos, delivery: delivery, checkout: checkout}
}

func TestCartFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	svcs := newServices(testDB.Pool)
	ctx := context.Background()

	t.Run("Adds reserve stock and the last unit stays on the shelf", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		// SCARF-001 has three units. Two shoppers get one each; the third
		// would take the display unit and is refused.
		_, err := svcs.carts.AddItem(ctx, "user-1", "SCARF-001", "black")
		require.NoError(t, err)

		_, err = svcs.carts.AddItem(ctx, "user-2", "SCARF-001", "black")
		require.NoError(t, err)

		_, err = svcs.carts.AddItem(ctx, "user-3", "SCARF-001", "black")
		assert.ErrorIs(t, err, model.ErrOutOfStock)

		assert.Equal(t, 1, ProductStock(t, testDB.Pool, "SCARF-001"))
	})

	t.Run("Remove restores what add reserved", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		_, err := svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)
		assert.Equal(t, 9, ProductStock(t, testDB.Pool, "SCARF-002"))

		cart, err := svcs.carts.RemoveItem(ctx, "user-1", "SCARF-002")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, 10, ProductStock(t, testDB.Pool, "SCARF-002"))
	})

	t.Run("Quantity updates move the stock delta both ways", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		_, err := svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)

		cart, err := svcs.carts.UpdateQuantity(ctx, "user-1", "SCARF-002", 5)
		require.NoError(t, err)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.Equal(t, 5, ProductStock(t, testDB.Pool, "SCARF-002"))

		cart, err = svcs.carts.UpdateQuantity(ctx, "user-1", "SCARF-002", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 8, ProductStock(t, testDB.Pool, "SCARF-002"))

		// More than the shelf holds is refused and nothing moves.
		_, err = svcs.carts.UpdateQuantity(ctx, "user-1", "SCARF-002", 50)
		assert.ErrorIs(t, err, model.ErrOutOfStock)
		assert.Equal(t, 8, ProductStock(t, testDB.Pool, "SCARF-002"))
	})

	t.Run("Clear restores every line", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		_, err := svcs.carts.AddItem(ctx, "user-1", "SCARF-001", "black")
		require.NoError(t, err)
		_, err = svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)

		require.NoError(t, svcs.carts.Clear(ctx, "user-1"))

		cart, err := svcs.carts.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, 3, ProductStock(t, testDB.Pool, "SCARF-001"))
		assert.Equal(t, 10, ProductStock(t, testDB.Pool, "SCARF-002"))
	})
}

func TestCheckoutFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	svcs := newServices(testDB.Pool)
	ctx := context.Background()

	address := model.Address{
		Name:   "Mona Ahmed",
		Phone:  "+201001234567",
		Region: "cairo",
		City:   "Cairo",
		Street: "12 Tahrir St",
	}

	t.Run("Checkout empties the cart without restoring stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedPromotion(t, testDB.Pool, "SAVE10", 0, 100)

		_, err := svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)
		_, err = svcs.carts.UpdateQuantity(ctx, "user-1", "SCARF-002", 4)
		require.NoError(t, err)

		// Subtotal 4 x 99.50 = 398; 10% off is 39.80; cairo fee 45.
		resp, err := svcs.checkout.PlaceOrder(ctx, "user-1", &model.CheckoutRequest{
			Address:       address,
			PromoCode:     "save10",
			PaymentMethod: model.PaymentCashOnDelivery,
		})
		require.NoError(t, err)
		assert.InDelta(t, 398.0, resp.Subtotal, 0.001)
		assert.InDelta(t, 39.8, resp.Discount, 0.001)
		assert.InDelta(t, 45.0, resp.DeliveryFee, 0.001)
		assert.InDelta(t, 403.2, resp.Total, 0.001)
		assert.Equal(t, model.OrderStatusPending, resp.Status)

		// Cart gone, stock still reserved for the order.
		cart, err := svcs.carts.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, 6, ProductStock(t, testDB.Pool, "SCARF-002"))

		// The order reads back with its line snapshot.
		order, err := svcs.checkout.GetOrder(ctx, "user-1", resp.OrderID)
		require.NoError(t, err)
		require.NotNil(t, order)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 4, order.Items[0].Quantity)
		assert.Equal(t, "cairo", order.Address.Region)
		require.NotNil(t, order.PromoCode)
		assert.Equal(t, "SAVE10", *order.PromoCode)

		// The saved address prefilled the profile.
		profileRepo := repository.NewProfileRepository(testDB.Pool, zerolog.Nop())
		profile, err := profileRepo.Get(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "Mona Ahmed", profile.Name)
	})

	t.Run("Free delivery at the threshold", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		_, err := svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)
		_, err = svcs.carts.UpdateQuantity(ctx, "user-1", "SCARF-002", 7)
		require.NoError(t, err)

		// 7 x 99.50 = 696.50, past the 600 threshold.
		resp, err := svcs.checkout.PlaceOrder(ctx, "user-1", &model.CheckoutRequest{
			Address:       address,
			PaymentMethod: model.PaymentWallet,
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, resp.DeliveryFee, 0.001)
		assert.Equal(t, model.OrderStatusWaitingForPayment, resp.Status)
	})

	t.Run("Checkout with an empty cart is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		_, err := svcs.checkout.PlaceOrder(ctx, "user-9", &model.CheckoutRequest{
			Address:       address,
			PaymentMethod: model.PaymentCashOnDelivery,
		})
		assert.ErrorIs(t, err, model.ErrCartEmpty)
	})

	t.Run("First-order-only promo blocks a returning customer", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedPromotion(t, testDB.Pool, "WELCOME", 0, 1000)
		_, err := testDB.Pool.Exec(ctx,
			`UPDATE promotions SET first_order_only = TRUE WHERE code = 'WELCOME'`)
		require.NoError(t, err)

		_, err = svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)
		_, err = svcs.checkout.PlaceOrder(ctx, "user-1", &model.CheckoutRequest{
			Address:       address,
			PaymentMethod: model.PaymentCashOnDelivery,
		})
		require.NoError(t, err)

		// Second order with the welcome code fails the first-order check.
		_, err = svcs.carts.AddItem(ctx, "user-1", "SCARF-002", "")
		require.NoError(t, err)
		_, err = svcs.checkout.PlaceOrder(ctx, "user-1", &model.CheckoutRequest{
			Address:       address,
			PromoCode:     "WELCOME",
			PaymentMethod: model.PaymentCashOnDelivery,
		})
		assert.ErrorIs(t, err, model.ErrPromoFirstOrderOnly)
	})
}

func TestPromoApply_Concurrent_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	svcs := newServices(testDB.Pool)
	ctx := context.Background()

	CleanupDB(t, testDB.Pool)
	SeedPromotion(t, testDB.Pool, "LAST1", 99, 100)

	const attempts = 10
	var wg sync.WaitGroup
	wins := make(chan *service.PromoApplication, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := svcs.promos.Apply(ctx, "LAST1", 300, "user-1")
			if err == nil {
				wins <- applied
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	assert.Equal(t, 1, won)
}
