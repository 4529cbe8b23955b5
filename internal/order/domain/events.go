package domain

type OrderCreated struct {
	OrderID    string
	CustomerID string
	TotalCents int64
	Items      []LineItem
}

type OrderStatusChanged struct {
	OrderID string
	From    Status
	To      Status
	ActorID string
}

type OrderPaid struct {
	OrderID                      string
	AmountCents                  int64
	ExternalPaymentOrderID       string
	ExternalPaymentTransactionID string
}
