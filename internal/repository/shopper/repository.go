package shopper

import (
	"context"

	"marketplace/internal/domain"
)

type CreateInput struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         string
}

type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Shopper, error)
	GetByID(ctx context.Context, id string) (*domain.Shopper, error)
	GetByEmail(ctx context.Context, email string) (*domain.Shopper, error)
}
