package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	catalog "github.com/craftline/marketplace/internal/catalog/domain"
	"github.com/craftline/marketplace/internal/order/domain"
	"github.com/craftline/marketplace/pkg/tracing"
	"github.com/google/uuid"
)

// PlacementService is the commit boundary between the mutable basket and the
// immutable order. Price, stock, and seller ownership are read fresh from
// the catalog here; basket-time snapshots are never trusted.
type PlacementService struct {
	log     *slog.Logger
	repo    Repository
	baskets BasketReader
	catalog CatalogReader
}

func NewPlacementService(log *slog.Logger, repo Repository, baskets BasketReader, catalog CatalogReader) *PlacementService {
	return &PlacementService{log: log, repo: repo, baskets: baskets, catalog: catalog}
}

// PlaceOrder converts the customer's basket into an order. Either the order
// is created, stock decremented, and the basket emptied, or nothing happens.
func (s *PlacementService) PlaceOrder(ctx context.Context, customerID string, addr domain.ShippingAddress, method domain.PaymentMethod, delivery domain.DeliveryType) (domain.Order, error) {
	if err := addr.Validate(); err != nil {
		return domain.Order{}, err
	}

	b, err := s.baskets.Get(ctx, customerID)
	if err != nil {
		return domain.Order{}, err
	}
	if b.Empty() {
		return domain.Order{}, domain.ErrEmptyBasket
	}

	items := make([]domain.LineItem, 0, len(b.Items))
	for _, line := range b.Items {
		p, err := s.catalog.Product(ctx, line.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			return domain.Order{}, &domain.ProductUnavailableError{ProductID: line.ProductID}
		}
		if err != nil {
			return domain.Order{}, err
		}
		if !p.IsActive {
			return domain.Order{}, &domain.ProductUnavailableError{ProductID: p.ID, ProductName: p.Name}
		}
		if p.StockCount < line.Quantity {
			return domain.Order{}, &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   line.Quantity,
				Available:   p.StockCount,
			}
		}
		items = append(items, domain.LineItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			SellerID:       p.SellerID,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
		})
	}

	o := domain.NewOrder(uuid.NewString(), customerID, items, addr, method, delivery)

	event := domain.OrderCreated{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		TotalCents: o.TotalCents,
		Items:      o.Items,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Order{}, err
	}

	// The repository re-guards stock and basket contents inside the
	// transaction; the pass above only produces early, well-named failures.
	if err := s.repo.CreateFromBasket(ctx, o, "OrderCreated", payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order placed", "order_id", o.ID, "customer_id", customerID, "total_cents", o.TotalCents, "items", len(o.Items))
	return o, nil
}
