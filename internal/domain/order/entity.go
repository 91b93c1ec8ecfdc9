// internal/domain/order/entity.go
package order

import (
	"math"
	"time"
)

// Status represents the order status
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	// PaymentMethodPayOS pays through the external PayOS gateway via a
	// full-page redirect to its hosted payment URL.
	PaymentMethodPayOS PaymentMethod = "payos"
	// PaymentMethodCOD is cash on delivery, no gateway interaction.
	PaymentMethodCOD PaymentMethod = "cod"
)

// Valid reports whether the payment method is one the storefront accepts
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodPayOS || m == PaymentMethodCOD
}

// ShippingAddress is the delivery address collected at checkout
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Phone     string `json:"phone"`
}

// Item is a purchased line, snapshotted at order time and decoupled from
// live product state.
type Item struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a placed order as reported by the upstream API
type Order struct {
	ID              string          `json:"id"`
	Items           []Item          `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Status          Status          `json:"status"`
	IsPaid          bool            `json:"isPaid"`
	TotalPrice      float64         `json:"totalPrice"`
	ShippingFee     float64         `json:"shippingFee"`
	Tax             float64         `json:"tax"`
	FinalTotal      float64         `json:"finalTotal"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// AwaitingPayOSPayment reports whether the order is an abandoned PayOS
// payment candidate: still pending, unpaid, and routed through the
// gateway. These are the only orders the cancellation view compensates.
func (o *Order) AwaitingPayOSPayment() bool {
	return o.Status == StatusPending && !o.IsPaid && o.PaymentMethod == PaymentMethodPayOS
}

// TotalsConsistent verifies finalTotal == totalPrice + shippingFee + tax
// within rounding. The server computes these; the check only flags
// corrupt responses.
func (o *Order) TotalsConsistent() bool {
	return math.Abs(o.FinalTotal-(o.TotalPrice+o.ShippingFee+o.Tax)) < 0.005
}
