package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/domain"
	"marketplace/internal/metrics"
	checkoutrepo "marketplace/internal/repository/checkout"
	"github.com/google/uuid"
)

// Orders are numbered CMD-<unix ms>-<uuid fragment>. The unique constraint
// on order_number catches the improbable collision; Checkout retries with a
// fresh number instead of failing the shopper.
const maxNumberRetries = 5

// Service converts carts into orders and cancels eligible orders with
// stock restoration. The heavy lifting is transactional in the repository;
// the service validates, numbers orders and reports metrics.
type Service struct {
	carts  cartRepo
	repo   checkoutRepo
	orders orderRepo
	meter  *metrics.Metrics
	cache  cache.ProductCache
}

type cartRepo interface {
	GetByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
}

type checkoutRepo interface {
	CreateOrder(ctx context.Context, in checkoutrepo.CreateOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// New builds the checkout service. meter and productCache may be nil.
func New(carts cartRepo, repo checkoutRepo, orders orderRepo, meter *metrics.Metrics, productCache cache.ProductCache) *Service {
	return &Service{carts: carts, repo: repo, orders: orders, meter: meter, cache: productCache}
}

type CheckoutInput struct {
	DeliveryAddress domain.Address `json:"deliveryAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	CustomerNote    string         `json:"customerNote"`
}

// Checkout atomically converts the shopper's cart into an order: stock is
// validated and deducted, the order snapshot persisted and the cart cleared
// in one transaction. On any failure nothing is visible to the caller.
func (s *Service) Checkout(ctx context.Context, shopperID string, in CheckoutInput) (*domain.Order, error) {
	if !domain.ValidPaymentMethod(strings.TrimSpace(in.PaymentMethod)) {
		return nil, errors.New("invalid payment method")
	}

	cart, err := s.carts.GetByShopper(ctx, shopperID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	storeID := cart.Lines[0].StoreID
	if cart.PrimaryStoreID != nil {
		storeID = *cart.PrimaryStoreID
	}

	var order *domain.Order
	for i := 0; i < maxNumberRetries; i++ {
		order, err = s.repo.CreateOrder(ctx, checkoutrepo.CreateOrderInput{
			OrderNumber:      newOrderNumber(),
			ShopperID:        shopperID,
			StoreID:          storeID,
			CartID:           cart.ID,
			Lines:            cart.Lines,
			DeliveryAddress:  in.DeliveryAddress,
			PaymentMethod:    strings.TrimSpace(in.PaymentMethod),
			CustomerNote:     strings.TrimSpace(in.CustomerNote),
			SubtotalCents:    cart.SubtotalCents,
			ShippingFeeCents: cart.ShippingFeeCents,
			TaxCents:         cart.TaxCents,
			TotalCents:       cart.TotalCents,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			err = domain.ErrConflict
		}
		s.countCheckout(err)
		return nil, err
	}

	s.countCheckout(nil)
	if s.meter != nil {
		s.meter.OrderTotalCents.Observe(float64(order.TotalCents))
	}
	s.invalidateProducts(ctx, order.Lines)
	return order, nil
}

// Cancel flips a pending or confirmed order to cancelled and restores each
// line's quantity to product stock, exactly once. Allowed for the order's
// owner or a privileged principal.
func (s *Service) Cancel(ctx context.Context, principal domain.Principal, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.Privileged() && order.ShopperID != principal.ShopperID {
		return nil, domain.ErrForbidden
	}

	cancelled, err := s.repo.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.meter != nil {
		s.meter.Cancellations.Inc()
	}
	s.invalidateProducts(ctx, cancelled.Lines)
	return cancelled, nil
}

// invalidateProducts drops cached copies of products whose stock changed.
// Best effort: the cache has a TTL and reads fall through to the database.
func (s *Service) invalidateProducts(ctx context.Context, lines []domain.OrderLine) {
	if s.cache == nil {
		return
	}
	for _, line := range lines {
		_ = s.cache.Invalidate(ctx, line.ProductID)
	}
}

func (s *Service) countCheckout(err error) {
	if s.meter == nil {
		return
	}
	result := "success"
	switch {
	case err == nil:
	case domain.IsInsufficientStock(err):
		result = "insufficient_stock"
	case errors.Is(err, domain.ErrConflict):
		result = "conflict"
	default:
		result = "error"
	}
	s.meter.Checkouts.WithLabelValues(result).Inc()
}

func newOrderNumber() string {
	return fmt.Sprintf("CMD-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
