package application

import (
	"context"
	"log/slog"
	"testing"

	order "github.com/craftline/marketplace/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	created map[string][]string
	paid    []string
}

func (r *memRepo) RecordOrderCreated(_ context.Context, orderID string, sellerIDs []string) error {
	if r.created == nil {
		r.created = map[string][]string{}
	}
	r.created[orderID] = sellerIDs
	return nil
}

func (r *memRepo) MarkPaid(_ context.Context, orderID string) error {
	r.paid = append(r.paid, orderID)
	return nil
}

func TestHandleOrderCreatedDeduplicatesSellers(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(slog.Default(), repo)

	err := svc.HandleOrderCreated(context.Background(), order.OrderCreated{
		OrderID: "order-1",
		Items: []order.LineItem{
			{ProductID: "a", SellerID: "seller-1"},
			{ProductID: "b", SellerID: "seller-2"},
			{ProductID: "c", SellerID: "seller-1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"seller-1", "seller-2"}, repo.created["order-1"])
}

func TestHandleOrderPaid(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(slog.Default(), repo)

	require.NoError(t, svc.HandleOrderPaid(context.Background(), order.OrderPaid{OrderID: "order-1"}))
	assert.Equal(t, []string{"order-1"}, repo.paid)
}
