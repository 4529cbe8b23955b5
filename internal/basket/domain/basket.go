package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrItemNotFound       = errors.New("item not in basket")
	ErrProductUnavailable = errors.New("product unavailable")
)

// Basket is a customer's pre-commit, freely editable list of desired
// products. It carries no price or stock truth; both are re-read from the
// catalog at placement time.
type Basket struct {
	CustomerID string
	Items      []Item
	UpdatedAt  time.Time
}

type Item struct {
	ProductID string
	Quantity  int
}

func (b Basket) Empty() bool { return len(b.Items) == 0 }
