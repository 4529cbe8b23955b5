package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	order "github.com/craftline/marketplace/internal/order/domain"
	"github.com/craftline/marketplace/internal/payment/domain"
	"github.com/craftline/marketplace/pkg/tracing"
)

// Service is the settlement adapter around the external payment gateway:
// it creates remote payment orders and verifies signed completion callbacks
// before crediting the local order.
type Service struct {
	log      *slog.Logger
	intents  IntentRepository
	orders   OrderReader
	gateway  GatewayClient
	secret   string
	currency string
}

func NewService(log *slog.Logger, intents IntentRepository, orders OrderReader, gateway GatewayClient, secret, currency string) *Service {
	return &Service{
		log:      log,
		intents:  intents,
		orders:   orders,
		gateway:  gateway,
		secret:   secret,
		currency: currency,
	}
}

// CreatePaymentIntent sizes a remote gateway order to the order total and
// records the correlation locally. The gateway call happens before any local
// mutation; no lock is held across it.
func (s *Service) CreatePaymentIntent(ctx context.Context, customerID, orderID string) (domain.Checkout, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Checkout{}, err
	}
	if o.CustomerID != customerID {
		return domain.Checkout{}, order.ErrForbidden
	}
	if o.IsPaid {
		return domain.Checkout{}, order.ErrAlreadyPaid
	}

	remote, err := s.gateway.CreateRemoteOrder(ctx, o.TotalCents, s.currency)
	if err != nil {
		return domain.Checkout{}, err
	}

	intent := domain.PaymentIntent{
		OrderID:         o.ID,
		ExternalOrderID: remote.ID,
		AmountCents:     o.TotalCents,
		Currency:        s.currency,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return domain.Checkout{}, err
	}

	s.log.Info("payment intent created", "order_id", o.ID, "external_order_id", remote.ID, "amount_cents", o.TotalCents)
	return domain.Checkout{
		KeyID:           remote.PublicKey,
		ExternalOrderID: remote.ID,
		AmountCents:     o.TotalCents,
		Currency:        s.currency,
	}, nil
}

// VerifyPayment authenticates a claimed completion against the signing
// secret, then settles the intent idempotently. A tampered signature or an
// intent we never issued leaves every record untouched.
func (s *Service) VerifyPayment(ctx context.Context, externalOrderID, externalPaymentID, signature string) (order.Order, error) {
	if !domain.VerifySignature(s.secret, externalOrderID, externalPaymentID, signature) {
		s.log.Warn("payment signature mismatch", "external_order_id", externalOrderID, "external_payment_id", externalPaymentID)
		return order.Order{}, domain.ErrVerificationFailed
	}

	intent, err := s.intents.ByExternalOrderID(ctx, externalOrderID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownIntent) {
			s.log.Warn("valid signature for unknown intent", "external_order_id", externalOrderID)
		}
		return order.Order{}, err
	}

	event := order.OrderPaid{
		OrderID:                      intent.OrderID,
		AmountCents:                  intent.AmountCents,
		ExternalPaymentOrderID:       externalOrderID,
		ExternalPaymentTransactionID: externalPaymentID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return order.Order{}, err
	}

	already, err := s.intents.Settle(ctx, externalOrderID, externalPaymentID, "OrderPaid", payload, tracing.Traceparent(ctx))
	if err != nil {
		return order.Order{}, err
	}
	if already {
		s.log.Info("payment already settled, callback ignored", "external_order_id", externalOrderID)
	} else {
		s.log.Info("payment settled", "order_id", intent.OrderID, "external_order_id", externalOrderID)
	}
	return s.orders.Get(ctx, intent.OrderID)
}
