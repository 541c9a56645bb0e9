package order

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain"
	orderrepo "marketplace/internal/repository/order"
)

// Service is the order ledger's read and status-transition surface.
// Cancellation lives in the checkout service because it touches stock.
type Service struct {
	repo repo
}

type repo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByShopper(ctx context.Context, shopperID string) ([]domain.Order, error)
	List(ctx context.Context, filter orderrepo.ListFilter, limit, offset int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
}

func New(r orderrepo.Repository) *Service {
	return &Service{repo: r}
}

// ListMine returns the shopper's own orders, newest first.
func (s *Service) ListMine(ctx context.Context, shopperID string) ([]domain.Order, error) {
	return s.repo.ListByShopper(ctx, shopperID)
}

// Get returns the order when the principal owns it or is privileged.
func (s *Service) Get(ctx context.Context, principal domain.Principal, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.Privileged() && order.ShopperID != principal.ShopperID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// List is the privileged listing with filter and pagination.
func (s *Service) List(ctx context.Context, principal domain.Principal, filter orderrepo.ListFilter, limit, offset int) ([]domain.Order, int, error) {
	if !principal.Privileged() {
		return nil, 0, domain.ErrForbidden
	}
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, 0, errors.New("unknown status filter")
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// UpdateStatus moves an order forward along its lifecycle. Cancellation is
// rejected here: it restores stock and must go through the checkout
// service's Cancel. Transitions out of terminal states always fail.
func (s *Service) UpdateStatus(ctx context.Context, principal domain.Principal, id, newStatus string) (*domain.Order, error) {
	if !principal.Privileged() {
		return nil, domain.ErrForbidden
	}
	newStatus = strings.TrimSpace(newStatus)
	if !domain.ValidStatus(newStatus) {
		return nil, errors.New("unknown status")
	}
	if newStatus == domain.StatusCancelled {
		return nil, domain.ErrInvalidTransition
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, newStatus) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status, newStatus); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
