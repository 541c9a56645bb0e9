package cart

import (
	"context"

	"marketplace/internal/domain"
)

// Repository persists the single active cart per shopper. Every mutation
// recomputes the derived totals in the same transaction, so callers never
// observe a cart whose total diverges from its lines.
type Repository interface {
	GetOrCreateByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
	GetByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, product domain.Product, quantity int, storeID string) error
	SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}
