package application

import (
	"context"
	"log/slog"
	"testing"

	basket "github.com/craftline/marketplace/internal/basket/domain"
	catalog "github.com/craftline/marketplace/internal/catalog/domain"
	"github.com/craftline/marketplace/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fulfillmentFixture(t *testing.T) (*FulfillmentService, *memRepo, domain.Order) {
	t.Helper()
	c := &stubCatalog{products: map[string]catalog.Product{}}
	b := &stubBaskets{items: map[string][]basket.Item{}}
	repo := newMemRepo(c, b)

	o := domain.NewOrder("order-1", "cust-1", []domain.LineItem{
		{ProductID: "prod-a", ProductName: "Clay Vase", SellerID: "seller-1", Quantity: 1, UnitPriceCents: 500},
		{ProductID: "prod-b", ProductName: "Silk Scarf", SellerID: "seller-2", Quantity: 2, UnitPriceCents: 200},
	}, testAddr, domain.PaymentCashOnDelivery, domain.DeliveryStandard)
	repo.orders[o.ID] = o

	return NewFulfillmentService(slog.Default(), repo), repo, o
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)
	_, err := svc.UpdateStatus(context.Background(), "admin-1", domain.RoleAdmin, o.ID, "teleported")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _ := fulfillmentFixture(t)
	_, err := svc.UpdateStatus(context.Background(), "admin-1", domain.RoleAdmin, "order-nope", "confirmed")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatusCustomerForbidden(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)
	_, err := svc.UpdateStatus(context.Background(), "cust-1", domain.RoleCustomer, o.ID, "confirmed")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatusSellerWithoutItemsForbidden(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)
	_, err := svc.UpdateStatus(context.Background(), "seller-99", domain.RoleSeller, o.ID, "confirmed")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatusSellerWithItems(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)
	updated, err := svc.UpdateStatus(context.Background(), "seller-2", domain.RoleSeller, o.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
}

func TestUpdateStatusAdminAlwaysAllowed(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)
	updated, err := svc.UpdateStatus(context.Background(), "admin-1", domain.RoleAdmin, o.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
}

func TestUpdateStatusRejectsDisallowedTransition(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)

	_, err := svc.UpdateStatus(context.Background(), "admin-1", domain.RoleAdmin, o.ID, "delivered")
	var bad *domain.InvalidTransitionError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, domain.StatusPending, bad.From)
	assert.Equal(t, domain.StatusDelivered, bad.To)
}

func TestUpdateStatusTerminalStates(t *testing.T) {
	svc, repo, o := fulfillmentFixture(t)

	for _, status := range []string{"confirmed", "shipped", "delivered"} {
		_, err := svc.UpdateStatus(context.Background(), "admin-1", domain.RoleAdmin, o.ID, status)
		require.NoError(t, err)
	}

	_, err := svc.UpdateStatus(context.Background(), "admin-1", domain.RoleAdmin, o.ID, "pending")
	var bad *domain.InvalidTransitionError
	require.ErrorAs(t, err, &bad)

	stored, _ := repo.Get(context.Background(), o.ID)
	assert.Equal(t, domain.StatusDelivered, stored.Status)
}

func TestAllOrdersAdminOnly(t *testing.T) {
	svc, _, _ := fulfillmentFixture(t)

	_, err := svc.AllOrders(context.Background(), domain.RoleSeller)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	orders, err := svc.AllOrders(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrdersForSeller(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)

	orders, err := svc.OrdersForSeller(context.Background(), "seller-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)

	orders, err = svc.OrdersForSeller(context.Background(), "seller-99")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderAccessControl(t *testing.T) {
	svc, _, o := fulfillmentFixture(t)

	_, err := svc.Order(context.Background(), "cust-1", domain.RoleCustomer, o.ID)
	assert.NoError(t, err)

	_, err = svc.Order(context.Background(), "cust-2", domain.RoleCustomer, o.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Order(context.Background(), "seller-1", domain.RoleSeller, o.ID)
	assert.NoError(t, err)

	_, err = svc.Order(context.Background(), "admin-1", domain.RoleAdmin, o.ID)
	assert.NoError(t, err)
}
