package application

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/craftline/marketplace/internal/order/domain"
	"github.com/craftline/marketplace/pkg/tracing"
)

// FulfillmentService governs the order status field and who may move it.
type FulfillmentService struct {
	log  *slog.Logger
	repo Repository
}

func NewFulfillmentService(log *slog.Logger, repo Repository) *FulfillmentService {
	return &FulfillmentService{log: log, repo: repo}
}

// UpdateStatus transitions an order through the fulfillment graph. Admins may
// move any order; sellers only orders carrying at least one of their line
// items; customers never.
func (s *FulfillmentService) UpdateStatus(ctx context.Context, actorID string, role domain.Role, orderID, newStatus string) (domain.Order, error) {
	status, err := domain.ParseStatus(newStatus)
	if err != nil {
		return domain.Order{}, err
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.CanBeUpdatedBy(role, actorID) {
		return domain.Order{}, domain.ErrForbidden
	}
	if !o.Status.CanTransitionTo(status) {
		return domain.Order{}, &domain.InvalidTransitionError{From: o.Status, To: status}
	}

	event := domain.OrderStatusChanged{
		OrderID: o.ID,
		From:    o.Status,
		To:      status,
		ActorID: actorID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, o.ID, o.Status, status, "OrderStatusChanged", payload, tracing.Traceparent(ctx))
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order status updated", "order_id", o.ID, "from", o.Status, "to", status, "actor_id", actorID, "role", role)
	return updated, nil
}

// OrdersForCustomer lists the customer's own orders.
func (s *FulfillmentService) OrdersForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// OrdersForSeller lists orders containing at least one of the seller's items.
func (s *FulfillmentService) OrdersForSeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// AllOrders is admin-only.
func (s *FulfillmentService) AllOrders(ctx context.Context, role domain.Role) ([]domain.Order, error) {
	if role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// Order returns a single order, restricted to its customer, a seller with
// items on it, or an admin.
func (s *FulfillmentService) Order(ctx context.Context, actorID string, role domain.Role, orderID string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	switch {
	case role == domain.RoleAdmin:
	case role == domain.RoleSeller && o.HasSeller(actorID):
	case role == domain.RoleCustomer && o.CustomerID == actorID:
	default:
		return domain.Order{}, domain.ErrForbidden
	}
	return o, nil
}
