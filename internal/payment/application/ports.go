package application

import (
	"context"

	order "github.com/craftline/marketplace/internal/order/domain"
	"github.com/craftline/marketplace/internal/payment/domain"
)

type IntentRepository interface {
	Create(ctx context.Context, intent domain.PaymentIntent) error
	// ByExternalOrderID returns domain.ErrUnknownIntent if no intent was
	// ever created for the remote order id.
	ByExternalOrderID(ctx context.Context, externalOrderID string) (domain.PaymentIntent, error)
	// Settle flips the intent's verified flag and marks the order paid in
	// one transaction, writing the outbox event. It reports already=true and
	// changes nothing when the intent was verified before, so retried
	// callbacks are no-ops.
	Settle(ctx context.Context, externalOrderID, externalPaymentID, eventType string, payload []byte, traceparent string) (already bool, err error)
}

type OrderReader interface {
	Get(ctx context.Context, id string) (order.Order, error)
}

type RemoteOrder struct {
	ID        string
	PublicKey string
}

type GatewayClient interface {
	// CreateRemoteOrder registers a payment object with the external gateway
	// sized in the smallest currency unit.
	CreateRemoteOrder(ctx context.Context, amountCents int64, currency string) (RemoteOrder, error)
}
