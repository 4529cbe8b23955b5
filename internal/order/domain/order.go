package domain

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a caller-supplied status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// transitions is the checked fulfillment graph. delivered and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentGateway        PaymentMethod = "gateway"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
)

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "standard"
	DeliveryExpress  DeliveryType = "express"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

const DefaultCountry = "India"

type ShippingAddress struct {
	Line       string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Validate checks the required structured fields. Country is optional and
// defaulted at order creation.
func (a ShippingAddress) Validate() error {
	switch {
	case a.Line == "":
		return &MissingAddressError{Field: "line"}
	case a.City == "":
		return &MissingAddressError{Field: "city"}
	case a.State == "":
		return &MissingAddressError{Field: "state"}
	case a.PostalCode == "":
		return &MissingAddressError{Field: "postal_code"}
	}
	return nil
}

// LineItem freezes product, price, and seller ownership at order creation.
// Later catalog changes never alter an existing order.
type LineItem struct {
	ProductID      string
	ProductName    string
	SellerID       string
	Quantity       int
	UnitPriceCents int64
}

type Order struct {
	ID                           string
	CustomerID                   string
	Items                        []LineItem
	ShippingAddress              ShippingAddress
	TotalCents                   int64
	Status                       Status
	PaymentMethod                PaymentMethod
	DeliveryType                 DeliveryType
	IsPaid                       bool
	PaidAt                       *time.Time
	ExternalPaymentOrderID       *string
	ExternalPaymentTransactionID *string
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

// NewOrder builds a pending, unpaid order. The total is computed once here
// and never recomputed.
func NewOrder(id, customerID string, items []LineItem, addr ShippingAddress, method PaymentMethod, delivery DeliveryType) Order {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	if method == "" {
		method = PaymentCashOnDelivery
	}
	if delivery == "" {
		delivery = DeliveryStandard
	}
	if addr.Country == "" {
		addr.Country = DefaultCountry
	}
	now := time.Now().UTC()
	return Order{
		ID:              id,
		CustomerID:      customerID,
		Items:           items,
		ShippingAddress: addr,
		TotalCents:      total,
		Status:          StatusPending,
		PaymentMethod:   method,
		DeliveryType:    delivery,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasSeller reports whether at least one line item belongs to sellerID.
func (o Order) HasSeller(sellerID string) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// CanBeUpdatedBy is the role-capability check for fulfillment updates. It is
// enforced here rather than in transport middleware so the rule holds on
// every calling surface.
func (o Order) CanBeUpdatedBy(role Role, actorID string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleSeller:
		return o.HasSeller(actorID)
	}
	return false
}
