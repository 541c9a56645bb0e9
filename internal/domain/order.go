package domain

import "time"

// Order statuses. Pending is the entry state; Delivered and Cancelled are
// terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment methods recorded on an order. Payment is recorded, not executed.
const (
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentPaypal   = "paypal"
	PaymentCash     = "cash"
)

// Payment notes.
const (
	PaymentNoteUnpaid  = "unpaid"
	PaymentNotePending = "pending"
	PaymentNotePaid    = "paid"
)

// Order is the immutable record of a completed checkout. Monetary fields and
// lines are frozen at creation; only status, payment note, shipment
// timestamps and admin notes change afterwards.
type Order struct {
	ID               string      `json:"id"`
	OrderNumber      string      `json:"orderNumber"`
	ShopperID        string      `json:"shopperId"`
	StoreID          string      `json:"storeId"`
	Lines            []OrderLine `json:"lines"`
	DeliveryAddress  Address     `json:"deliveryAddress"`
	PaymentMethod    string      `json:"paymentMethod"`
	PaymentNote      string      `json:"paymentNote"`
	Status           string      `json:"status"`
	SubtotalCents    int64       `json:"subtotalCents"`
	ShippingFeeCents int64       `json:"shippingFeeCents"`
	TaxCents         int64       `json:"taxCents"`
	TotalCents       int64       `json:"totalCents"`
	CustomerNote     string      `json:"customerNote,omitempty"`
	AdminNote        string      `json:"adminNote,omitempty"`
	ShippedAt        *time.Time  `json:"shippedAt,omitempty"`
	DeliveredAt      *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// OrderLine is a frozen copy of a cart line.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

var statusRank = map[string]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusPreparing: 2,
	StatusShipped:   3,
	StatusDelivered: 4,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// TerminalStatus reports whether no further transition is allowed from s.
func TerminalStatus(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to the
// next. Forward moves along pending -> confirmed -> preparing -> shipped ->
// delivered are allowed; cancellation only out of pending or confirmed;
// terminal states reject everything.
func CanTransition(from, to string) bool {
	if TerminalStatus(from) || from == to {
		return false
	}
	if to == StatusCancelled {
		return Cancellable(from)
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// Cancellable reports whether an order in the given status may be cancelled
// with stock restoration.
func Cancellable(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCard, PaymentTransfer, PaymentPaypal, PaymentCash:
		return true
	}
	return false
}
