package domain

import (
	"errors"
	"time"
)

var (
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrUnknownIntent      = errors.New("unknown payment intent")
)

// PaymentIntent correlates a local order with a remote gateway order. It is
// consumed exactly once by a successful verification; intents abandoned at
// checkout simply stay unverified.
type PaymentIntent struct {
	OrderID           string
	ExternalOrderID   string
	ExternalPaymentID *string
	AmountCents       int64
	Currency          string
	Verified          bool
	CreatedAt         time.Time
}

// Checkout is what the client needs to open the gateway's payment flow.
type Checkout struct {
	KeyID           string
	ExternalOrderID string
	AmountCents     int64
	Currency        string
}
