package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition is returned for illegal order status changes.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict indicates a concurrent update lost a race, such as an
	// order-number collision that survived retries.
	ErrConflict = errors.New("conflict")
	// ErrForbidden indicates the principal may not act on the resource.
	ErrForbidden = errors.New("forbidden")
)

// InsufficientStockError names the product whose stock could not cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested %d)", e.ProductID, e.Requested)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
