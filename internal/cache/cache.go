package cache

import (
	"context"
	"errors"

	"marketplace/internal/domain"
)

// ErrCacheMiss is returned when the key is absent. Callers fall through to
// the repository.
var ErrCacheMiss = errors.New("cache miss")

// ProductCache is a read-through cache for catalog products. Stock-mutating
// paths (checkout, cancel, product updates) must invalidate.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Invalidate(ctx context.Context, productID string) error
}
