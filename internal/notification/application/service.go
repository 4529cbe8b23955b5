package application

import (
	"context"
	"log/slog"

	order "github.com/craftline/marketplace/internal/order/domain"
)

// Service turns order events into per-seller notification records so each
// artisan can see new and paid orders containing their items.
type Service struct {
	log  *slog.Logger
	repo Repository
}

func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

func (s *Service) HandleOrderCreated(ctx context.Context, event order.OrderCreated) error {
	seen := make(map[string]struct{}, len(event.Items))
	sellers := make([]string, 0, len(event.Items))
	for _, item := range event.Items {
		if _, ok := seen[item.SellerID]; ok {
			continue
		}
		seen[item.SellerID] = struct{}{}
		sellers = append(sellers, item.SellerID)
	}
	if err := s.repo.RecordOrderCreated(ctx, event.OrderID, sellers); err != nil {
		return err
	}
	s.log.Info("sellers notified of new order", "order_id", event.OrderID, "sellers", len(sellers))
	return nil
}

func (s *Service) HandleOrderPaid(ctx context.Context, event order.OrderPaid) error {
	if err := s.repo.MarkPaid(ctx, event.OrderID); err != nil {
		return err
	}
	s.log.Info("sellers notified of payment", "order_id", event.OrderID)
	return nil
}
