package application

import (
	"context"
	"errors"

	"github.com/craftline/marketplace/internal/basket/domain"
	catalog "github.com/craftline/marketplace/internal/catalog/domain"
)

type Service struct {
	repo    Repository
	catalog CatalogReader
}

func NewService(repo Repository, catalog CatalogReader) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// AddItem appends the product to the basket or increments its quantity.
// Existence and active state are checked here; stock and price are not,
// since both may change before checkout and are re-validated at placement.
func (s *Service) AddItem(ctx context.Context, customerID, productID string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	p, err := s.catalog.Product(ctx, productID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return domain.ErrProductUnavailable
	}
	if err != nil {
		return err
	}
	if !p.IsActive {
		return domain.ErrProductUnavailable
	}
	return s.repo.AddQuantity(ctx, customerID, productID, qty)
}

func (s *Service) UpdateQuantity(ctx context.Context, customerID, productID string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	return s.repo.SetQuantity(ctx, customerID, productID, qty)
}

func (s *Service) RemoveItem(ctx context.Context, customerID, productID string) error {
	return s.repo.Remove(ctx, customerID, productID)
}

func (s *Service) Get(ctx context.Context, customerID string) (domain.Basket, error) {
	return s.repo.Get(ctx, customerID)
}
