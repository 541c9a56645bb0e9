package cart

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain"
	cartrepo "marketplace/internal/repository/cart"
)

// Service is the cart engine: it owns the single active cart per shopper
// and keeps derived totals consistent across mutations. Stock is checked
// against the live catalog on every mutation but never reserved; only
// checkout deducts it.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	GetOrCreateByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
	GetByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, product domain.Product, quantity int, storeID string) error
	SetLineQuantity(ctx context.Context, cartID, productID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type AddItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	StoreID   string `json:"storeId"`
}

// GetOrCreate returns the shopper's cart, creating an empty one on first
// use. It is idempotent.
func (s *Service) GetOrCreate(ctx context.Context, shopperID string) (*domain.Cart, error) {
	return s.repo.GetOrCreateByShopper(ctx, shopperID)
}

// AddItem appends a line or accumulates quantity on an existing one. The
// unit price is snapshotted at first add and deliberately not re-fetched on
// repeat adds.
func (s *Service) AddItem(ctx context.Context, shopperID string, in AddItemInput) (*domain.Cart, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, errors.New("productId required")
	}
	if in.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	storeID := strings.TrimSpace(in.StoreID)
	if storeID == "" {
		storeID = product.StoreID
	} else if storeID != product.StoreID {
		return nil, errors.New("product does not belong to store")
	}

	if product.Stock < in.Quantity {
		return nil, &domain.InsufficientStockError{ProductID: product.ID, Requested: in.Quantity}
	}

	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, *product, in.Quantity, storeID); err != nil {
		return nil, err
	}
	return s.repo.GetByShopper(ctx, shopperID)
}

// SetQuantity overwrites the quantity of an existing line, keeping the
// snapshot unit price. The new quantity is validated against current stock;
// on failure the cart is left untouched.
func (s *Service) SetQuantity(ctx context.Context, shopperID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, &domain.InsufficientStockError{ProductID: product.ID, Requested: quantity}
	}

	cart, err := s.repo.GetByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.repo.GetByShopper(ctx, shopperID)
}

// RemoveItem drops the matching line. Removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, shopperID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetByShopper(ctx, shopperID)
}

// Clear empties the cart, zeroes totals and resets the primary store, so a
// cleared cart is indistinguishable from a fresh one.
func (s *Service) Clear(ctx context.Context, shopperID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.repo.GetByShopper(ctx, shopperID)
}
