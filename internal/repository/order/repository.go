package order

import (
	"context"

	"marketplace/internal/domain"
)

// ListFilter narrows privileged order listings.
type ListFilter struct {
	Status  string
	StoreID string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByShopper(ctx context.Context, shopperID string) ([]domain.Order, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.Order, int, error)
	// UpdateStatus moves the order from one status to another as a
	// compare-and-swap: it fails with ErrConflict when the stored status no
	// longer matches from.
	UpdateStatus(ctx context.Context, id, from, to string) error
}
