package application

import (
	"context"
	"time"

	basket "github.com/craftline/marketplace/internal/basket/domain"
	catalog "github.com/craftline/marketplace/internal/catalog/domain"
	"github.com/craftline/marketplace/internal/order/domain"
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

type stubBaskets struct {
	items map[string][]basket.Item
}

func (s *stubBaskets) Get(_ context.Context, customerID string) (basket.Basket, error) {
	return basket.Basket{CustomerID: customerID, Items: s.items[customerID]}, nil
}

// memRepo mimics the postgres repository's transactional semantics: stock
// guards, basket emptying, and status compare-and-swap all succeed or fail
// as a unit.
type memRepo struct {
	catalog *stubCatalog
	baskets *stubBaskets
	orders  map[string]domain.Order
	events  []string
}

func newMemRepo(c *stubCatalog, b *stubBaskets) *memRepo {
	return &memRepo{catalog: c, baskets: b, orders: make(map[string]domain.Order)}
}

func (r *memRepo) CreateFromBasket(_ context.Context, o domain.Order, eventType string, _ []byte, _ string) error {
	if len(r.baskets.items[o.CustomerID]) == 0 {
		return domain.ErrEmptyBasket
	}
	for _, item := range o.Items {
		p, ok := r.catalog.products[item.ProductID]
		if !ok || !p.IsActive {
			return &domain.ProductUnavailableError{ProductID: item.ProductID, ProductName: item.ProductName}
		}
		if p.StockCount < item.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: p.Name,
				Requested:   item.Quantity,
				Available:   p.StockCount,
			}
		}
	}
	for _, item := range o.Items {
		p := r.catalog.products[item.ProductID]
		p.StockCount -= item.Quantity
		r.catalog.products[item.ProductID] = p
	}
	delete(r.baskets.items, o.CustomerID)
	r.orders[o.ID] = o
	r.events = append(r.events, eventType)
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (r *memRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memRepo) ListBySeller(_ context.Context, sellerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.HasSeller(sellerID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id string, from, to domain.Status, eventType string, _ []byte, _ string) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return domain.Order{}, &domain.InvalidTransitionError{From: o.Status, To: to}
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	r.events = append(r.events, eventType)
	return o, nil
}
