package checkout

import (
	"context"

	"marketplace/internal/domain"
)

// CreateOrderInput carries everything the checkout transaction persists.
// Monetary fields are copied from the cart, not recomputed.
type CreateOrderInput struct {
	OrderNumber      string
	ShopperID        string
	StoreID          string
	CartID           string
	Lines            []domain.CartLine
	DeliveryAddress  domain.Address
	PaymentMethod    string
	CustomerNote     string
	SubtotalCents    int64
	ShippingFeeCents int64
	TaxCents         int64
	TotalCents       int64
}

// Repository runs the cross-entity transactions of the pipeline: order
// creation with stock deduction, and cancellation with stock restoration.
// Both are all-or-nothing; stock and orders can never diverge.
type Repository interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*domain.Order, error)
}
