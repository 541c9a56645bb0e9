package store

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain"
	storerepo "marketplace/internal/repository/store"
)

// Service manages seller stores. Deleting a store is an explicit two-step
// cascade (products first, then the store) rather than a database trigger,
// so the ordering stays visible and testable.
type Service struct {
	repo     storerepo.Repository
	products productRepo
	shoppers shopperRepo
}

type productRepo interface {
	DeleteByStore(ctx context.Context, storeID string) (int, error)
}

type shopperRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Shopper, error)
}

func New(repo storerepo.Repository, products productRepo, shoppers shopperRepo) *Service {
	return &Service{repo: repo, products: products, shoppers: shoppers}
}

type CreateInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Address     domain.Address `json:"address"`
	Email       string         `json:"email"`
	ManagerID   string         `json:"managerId"`
}

type UpdateInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Address     *domain.Address `json:"address"`
	Email       *string         `json:"email"`
	Active      *bool           `json:"active"`
}

func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]domain.Store, int, error) {
	return s.repo.List(ctx, search, limit, offset)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, principal domain.Principal, in CreateInput) (*domain.Store, error) {
	if !principal.Privileged() {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	manager, err := s.shoppers.GetByID(ctx, strings.TrimSpace(in.ManagerID))
	if err != nil {
		return nil, err
	}
	if manager.Role != domain.RoleManager && manager.Role != domain.RoleAdmin {
		return nil, errors.New("manager must have the manager role")
	}
	return s.repo.Create(ctx, storerepo.CreateInput{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Address:     in.Address,
		Email:       strings.TrimSpace(in.Email),
		ManagerID:   manager.ID,
	})
}

func (s *Service) Update(ctx context.Context, principal domain.Principal, id string, in UpdateInput) (*domain.Store, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.Privileged() && existing.ManagerID != principal.ShopperID {
		return nil, domain.ErrForbidden
	}
	return s.repo.Update(ctx, id, storerepo.UpdateInput{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Email:       in.Email,
		Active:      in.Active,
	})
}

// Delete removes the store's products, then the store itself. Orders keep
// their frozen line snapshots and are untouched.
func (s *Service) Delete(ctx context.Context, principal domain.Principal, id string) error {
	if !principal.Privileged() {
		return domain.ErrForbidden
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := s.products.DeleteByStore(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Rate folds one rating into the store's running mean.
func (s *Service) Rate(ctx context.Context, id string, rating int) (*domain.Store, error) {
	if rating < 0 || rating > 5 {
		return nil, errors.New("rating must be between 0 and 5")
	}
	return s.repo.Rate(ctx, id, rating)
}
