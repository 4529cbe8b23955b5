package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBasket   = errors.New("basket is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrAlreadyPaid   = errors.New("order already paid")
)

// InsufficientStockError names the product and the quantities so the caller
// can correct the basket.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

type ProductUnavailableError struct {
	ProductID   string
	ProductName string
}

func (e *ProductUnavailableError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("product %q is unavailable", e.ProductName)
	}
	return fmt.Sprintf("product %s is unavailable", e.ProductID)
}

type MissingAddressError struct {
	Field string
}

func (e *MissingAddressError) Error() string {
	return fmt.Sprintf("shipping address is missing %s", e.Field)
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
