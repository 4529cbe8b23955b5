package application

import (
	"context"
	"testing"

	"github.com/craftline/marketplace/internal/basket/domain"
	catalog "github.com/craftline/marketplace/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	products map[string]catalog.Product
}

func (s *stubCatalog) Product(_ context.Context, id string) (catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrProductNotFound
	}
	return p, nil
}

type memRepo struct {
	items map[string]map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]map[string]int{}}
}

func (r *memRepo) Get(_ context.Context, customerID string) (domain.Basket, error) {
	b := domain.Basket{CustomerID: customerID}
	for productID, qty := range r.items[customerID] {
		b.Items = append(b.Items, domain.Item{ProductID: productID, Quantity: qty})
	}
	return b, nil
}

func (r *memRepo) AddQuantity(_ context.Context, customerID, productID string, qty int) error {
	if r.items[customerID] == nil {
		r.items[customerID] = map[string]int{}
	}
	r.items[customerID][productID] += qty
	return nil
}

func (r *memRepo) SetQuantity(_ context.Context, customerID, productID string, qty int) error {
	if _, ok := r.items[customerID][productID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[customerID][productID] = qty
	return nil
}

func (r *memRepo) Remove(_ context.Context, customerID, productID string) error {
	delete(r.items[customerID], productID)
	return nil
}

func fixture() (*Service, *memRepo) {
	c := &stubCatalog{products: map[string]catalog.Product{
		"prod-a": {ID: "prod-a", Name: "Clay Vase", PriceCents: 500, StockCount: 3, IsActive: true, SellerID: "seller-1"},
		"prod-x": {ID: "prod-x", Name: "Retired Lamp", IsActive: false, SellerID: "seller-1"},
	}}
	repo := newMemRepo()
	return NewService(repo, c), repo
}

func TestAddItemCreatesAndIncrements(t *testing.T) {
	svc, repo := fixture()

	require.NoError(t, svc.AddItem(context.Background(), "cust-1", "prod-a", 2))
	require.NoError(t, svc.AddItem(context.Background(), "cust-1", "prod-a", 1))

	assert.Equal(t, 3, repo.items["cust-1"]["prod-a"])
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	svc, _ := fixture()
	assert.ErrorIs(t, svc.AddItem(context.Background(), "cust-1", "prod-a", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddItem(context.Background(), "cust-1", "prod-a", -1), domain.ErrInvalidQuantity)
}

func TestAddItemUnavailableProduct(t *testing.T) {
	svc, _ := fixture()
	assert.ErrorIs(t, svc.AddItem(context.Background(), "cust-1", "prod-x", 1), domain.ErrProductUnavailable)
	assert.ErrorIs(t, svc.AddItem(context.Background(), "cust-1", "prod-gone", 1), domain.ErrProductUnavailable)
}

func TestUpdateQuantity(t *testing.T) {
	svc, repo := fixture()
	require.NoError(t, svc.AddItem(context.Background(), "cust-1", "prod-a", 2))

	require.NoError(t, svc.UpdateQuantity(context.Background(), "cust-1", "prod-a", 5))
	assert.Equal(t, 5, repo.items["cust-1"]["prod-a"])

	assert.ErrorIs(t, svc.UpdateQuantity(context.Background(), "cust-1", "prod-a", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(context.Background(), "cust-1", "prod-b", 2), domain.ErrItemNotFound)
}

func TestRemoveItemIdempotent(t *testing.T) {
	svc, _ := fixture()
	require.NoError(t, svc.AddItem(context.Background(), "cust-1", "prod-a", 1))

	assert.NoError(t, svc.RemoveItem(context.Background(), "cust-1", "prod-a"))
	assert.NoError(t, svc.RemoveItem(context.Background(), "cust-1", "prod-a"))
	assert.NoError(t, svc.RemoveItem(context.Background(), "cust-9", "prod-a"))
}

func TestGetReturnsEmptyBasket(t *testing.T) {
	svc, _ := fixture()
	b, err := svc.Get(context.Background(), "cust-new")
	require.NoError(t, err)
	assert.True(t, b.Empty())
	assert.Equal(t, "cust-new", b.CustomerID)
}
