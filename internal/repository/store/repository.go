package store

import (
	"context"

	"marketplace/internal/domain"
)

type CreateInput struct {
	Name        string
	Description string
	Address     domain.Address
	Email       string
	ManagerID   string
}

type UpdateInput struct {
	Name        *string
	Description *string
	Address     *domain.Address
	Email       *string
	Active      *bool
}

type Repository interface {
	List(ctx context.Context, search string, limit, offset int) ([]domain.Store, int, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	Create(ctx context.Context, in CreateInput) (*domain.Store, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Store, error)
	Delete(ctx context.Context, id string) error
	Rate(ctx context.Context, id string, rating int) (*domain.Store, error)
}
