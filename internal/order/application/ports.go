package application

import (
	"context"

	basket "github.com/craftline/marketplace/internal/basket/domain"
	catalog "github.com/craftline/marketplace/internal/catalog/domain"
	"github.com/craftline/marketplace/internal/order/domain"
)

type Repository interface {
	// CreateFromBasket persists the order and its line items, decrements
	// product stock with a guarded update per line, empties the customer's
	// basket, and writes the outbox event, all in one transaction. It fails
	// with *domain.InsufficientStockError if any stock guard misses and with
	// domain.ErrEmptyBasket if the basket was already emptied by a
	// concurrent placement.
	CreateFromBasket(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus moves the order from the expected current status to the
	// new one as a compare-and-swap, writing the outbox event in the same
	// transaction. Zero rows matched reports *domain.InvalidTransitionError.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status, eventType string, payload []byte, traceparent string) (domain.Order, error)
}

type BasketReader interface {
	Get(ctx context.Context, customerID string) (basket.Basket, error)
}

type CatalogReader interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}
