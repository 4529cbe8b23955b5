package integration

import (
	"context"
	"log/slog"
	"os"
	"testing"

	basketapp "github.com/craftline/marketplace/internal/basket/application"
	basketpg "github.com/craftline/marketplace/internal/basket/infrastructure/postgres"
	catalogpg "github.com/craftline/marketplace/internal/catalog/infrastructure/postgres"
	orderapp "github.com/craftline/marketplace/internal/order/application"
	"github.com/craftline/marketplace/internal/order/domain"
	orderpg "github.com/craftline/marketplace/internal/order/infrastructure/postgres"
	paymentapp "github.com/craftline/marketplace/internal/payment/application"
	paymentdomain "github.com/craftline/marketplace/internal/payment/domain"
	paymentpg "github.com/craftline/marketplace/internal/payment/infrastructure/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticGateway struct{}

func (staticGateway) CreateRemoteOrder(context.Context, int64, string) (paymentapp.RemoteOrder, error) {
	return paymentapp.RemoteOrder{ID: "ext_it_1", PublicKey: "key_test"}, nil
}

// TestPlaceAndSettle exercises the whole placement and settlement path
// against real postgres. Gated because it needs a container runtime.
func TestPlaceAndSettle(t *testing.T) {
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run container-backed tests")
	}

	ctx := context.Background()
	env, err := Setup(ctx)
	require.NoError(t, err)
	defer env.Teardown(ctx)

	pool, err := pgxpool.New(ctx, env.PGURL)
	require.NoError(t, err)
	defer pool.Close()

	schema, err := os.ReadFile("../../db/schema.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO products (id, name, price_cents, stock_count, is_active, seller_id) VALUES
		('prod-a', 'Clay Vase', 500, 3, true, 'seller-1'),
		('prod-b', 'Silk Scarf', 200, 10, true, 'seller-2')`)
	require.NoError(t, err)

	log := slog.Default()
	catalog := catalogpg.NewReader(log, pool)
	basketRepo := basketpg.NewRepository(log, pool)
	baskets := basketapp.NewService(basketRepo, catalog)
	orderRepo := orderpg.NewRepository(log, pool)
	placement := orderapp.NewPlacementService(log, orderRepo, basketRepo, catalog)
	fulfillment := orderapp.NewFulfillmentService(log, orderRepo)
	intents := paymentpg.NewRepository(log, pool)
	payments := paymentapp.NewService(log, intents, orderRepo, staticGateway{}, "topsecret", "INR")

	require.NoError(t, baskets.AddItem(ctx, "cust-1", "prod-a", 2))
	require.NoError(t, baskets.AddItem(ctx, "cust-1", "prod-b", 1))

	addr := domain.ShippingAddress{Line: "12 Pottery Lane", City: "Jaipur", State: "Rajasthan", PostalCode: "302001"}
	o, err := placement.PlaceOrder(ctx, "cust-1", addr, domain.PaymentGateway, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), o.TotalCents)

	// Basket emptied, stock decremented.
	b, err := baskets.Get(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, b.Empty())
	var stock int
	require.NoError(t, pool.QueryRow(ctx, `SELECT stock_count FROM products WHERE id='prod-a'`).Scan(&stock))
	assert.Equal(t, 1, stock)

	_, err = placement.PlaceOrder(ctx, "cust-1", addr, domain.PaymentGateway, "")
	assert.ErrorIs(t, err, domain.ErrEmptyBasket)

	// Settle twice; paid exactly once.
	checkout, err := payments.CreatePaymentIntent(ctx, "cust-1", o.ID)
	require.NoError(t, err)
	sig := paymentdomain.Sign("topsecret", checkout.ExternalOrderID, "pay_it_1")

	paid, err := payments.VerifyPayment(ctx, checkout.ExternalOrderID, "pay_it_1", sig)
	require.NoError(t, err)
	require.True(t, paid.IsPaid)
	firstPaidAt := *paid.PaidAt

	again, err := payments.VerifyPayment(ctx, checkout.ExternalOrderID, "pay_it_1", sig)
	require.NoError(t, err)
	assert.Equal(t, firstPaidAt, *again.PaidAt)

	// Fulfillment across roles.
	_, err = fulfillment.UpdateStatus(ctx, "seller-3", domain.RoleSeller, o.ID, "confirmed")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := fulfillment.UpdateStatus(ctx, "seller-1", domain.RoleSeller, o.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	sellerOrders, err := fulfillment.OrdersForSeller(ctx, "seller-2")
	require.NoError(t, err)
	require.Len(t, sellerOrders, 1)
	assert.Equal(t, o.ID, sellerOrders[0].ID)
}
