package product

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/cache"
	"marketplace/internal/domain"
	productrepo "marketplace/internal/repository/product"
)

// Catalog categories, mirroring what stores actually sell.
var Categories = []string{
	"fruits-vegetables", "dairy", "meat", "grocery", "drinks", "frozen", "hygiene", "other",
}

// Service exposes the product catalog. Reads go through an optional cache;
// every write path invalidates. The stock changes driven by checkout and
// cancellation invalidate through the same shared cache.
type Service struct {
	repo   productrepo.Repository
	stores storeRepo
	cache  cache.ProductCache
}

type storeRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)
}

// New builds the catalog service. productCache may be nil to disable caching.
func New(repo productrepo.Repository, stores storeRepo, productCache cache.ProductCache) *Service {
	return &Service{repo: repo, stores: stores, cache: productCache}
}

type CreateInput struct {
	StoreID     string `json:"storeId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int    `json:"stock"`
}

type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	PriceCents  *int64  `json:"priceCents"`
	Stock       *int    `json:"stock"`
	Active      *bool   `json:"active"`
}

func (s *Service) List(ctx context.Context, filter productrepo.ListFilter, limit, offset int) ([]domain.Product, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, id); err == nil {
			return p, nil
		}
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, p)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, principal domain.Principal, in CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.Stock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "other"
	}
	if !validCategory(category) {
		return nil, errors.New("unknown category")
	}

	if err := s.authorizeStore(ctx, principal, in.StoreID); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, productrepo.CreateInput{
		StoreID:     in.StoreID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
	})
}

func (s *Service) Update(ctx context.Context, principal domain.Principal, id string, in UpdateInput) (*domain.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeStore(ctx, principal, existing.StoreID); err != nil {
		return nil, err
	}
	if in.PriceCents != nil && *in.PriceCents < 0 {
		return nil, errors.New("price must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, errors.New("stock must not be negative")
	}
	if in.Category != nil && !validCategory(*in.Category) {
		return nil, errors.New("unknown category")
	}

	updated, err := s.repo.Update(ctx, id, productrepo.UpdateInput{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		Active:      in.Active,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, principal domain.Principal, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeStore(ctx, principal, existing.StoreID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) Rate(ctx context.Context, id string, rating int) (*domain.Product, error) {
	if rating < 0 || rating > 5 {
		return nil, errors.New("rating must be between 0 and 5")
	}
	p, err := s.repo.Rate(ctx, id, rating)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
}

// authorizeStore allows admins and the manager of the owning store.
func (s *Service) authorizeStore(ctx context.Context, principal domain.Principal, storeID string) error {
	if principal.Privileged() {
		return nil
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store.ManagerID != principal.ShopperID {
		return domain.ErrForbidden
	}
	return nil
}

func validCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
