package application

import (
	"context"

	"github.com/craftline/marketplace/internal/basket/domain"
	catalog "github.com/craftline/marketplace/internal/catalog/domain"
)

type Repository interface {
	// Get returns the customer's basket, empty (not an error) if none exists.
	Get(ctx context.Context, customerID string) (domain.Basket, error)
	// AddQuantity creates the line with qty, or increments an existing one.
	AddQuantity(ctx context.Context, customerID, productID string, qty int) error
	// SetQuantity overwrites an existing line's quantity, returning
	// domain.ErrItemNotFound if the product is not in the basket.
	SetQuantity(ctx context.Context, customerID, productID string, qty int) error
	// Remove deletes the line; a no-op if absent.
	Remove(ctx context.Context, customerID, productID string) error
}

type CatalogReader interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}
