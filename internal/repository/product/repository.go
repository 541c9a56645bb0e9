package product

import (
	"context"

	"marketplace/internal/domain"
)

// ListFilter narrows product listings. Zero values mean "no constraint".
type ListFilter struct {
	StoreID  string
	Category string
	Search   string
}

type CreateInput struct {
	StoreID     string
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Stock       int
}

type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
	PriceCents  *int64
	Stock       *int
	Active      *bool
}

type Repository interface {
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	DeleteByStore(ctx context.Context, storeID string) (int, error)
	Rate(ctx context.Context, id string, rating int) (*domain.Product, error)
}
