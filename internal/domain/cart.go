package domain

import "time"

// Cart is the per-shopper staging area of intended purchases. Exactly one
// cart exists per shopper; it is reused across checkouts, never deleted.
type Cart struct {
	ID               string     `json:"id"`
	ShopperID        string     `json:"shopperId"`
	PrimaryStoreID   *string    `json:"primaryStoreId,omitempty"`
	SubtotalCents    int64      `json:"subtotalCents"`
	ShippingFeeCents int64      `json:"shippingFeeCents"`
	TaxCents         int64      `json:"taxCents"`
	TotalCents       int64      `json:"totalCents"`
	Lines            []CartLine `json:"lines"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CartLine pairs a product with a quantity. UnitPriceCents is a snapshot of
// the product price taken on first add; repeat adds and quantity changes
// keep it, so cart totals can diverge from current catalog prices.
type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	ProductID      string    `json:"productId"`
	StoreID        string    `json:"storeId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
	CreatedAt      time.Time `json:"createdAt"`
}
