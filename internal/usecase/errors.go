package usecase

import (
	"errors"
	"fmt"
)

// Every failure a caller can act on maps to one of these kinds. The terminal
// surface prints them, the HTTP surface maps them to statuses; nothing here
// crashes the process.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidAttributes = errors.New("invalid attributes")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrOutOfStock        = errors.New("out of stock")
	ErrNotAvailable      = errors.New("product not available")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// Checkout failure for one specific line. Unwraps to ErrOutOfStock so callers
// can match either the kind or the product.
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrOutOfStock
}

// storeErr wraps a repository failure as ErrStoreUnavailable, keeping the
// cause for the logs.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
