package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is the read-only catalog truth consulted at commit time. The order
// core never writes it except for the guarded stock decrement during
// placement.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
	StockCount int
	IsActive   bool
	SellerID   string
}
