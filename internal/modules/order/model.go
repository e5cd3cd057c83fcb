package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order references one account and one product. TotalAmount is snapshotted
// at creation from the product price and never recomputed, even if the
// price changes later.
type Order struct {
	ID              uuid.UUID `json:"id"`
	AccountID       uuid.UUID `json:"account_id"`
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	TotalAmount     float64   `json:"total_amount"`
	ShippingAddress string    `json:"shipping_address"`
	Status          Status    `json:"order_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Account *AccountSummary `json:"account,omitempty"`
	Product *ProductSummary `json:"product,omitempty"`
}

// AccountSummary is the slice of account data embedded in order responses.
type AccountSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// ProductSummary is the slice of product data embedded in order responses.
type ProductSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// CreateOrderRequest is the payload for placing an order. Quantity defaults
// to 1 when unspecified.
type CreateOrderRequest struct {
	ProductID       string `json:"product_id"`
	Quantity        int    `json:"quantity,omitempty"`
	ShippingAddress string `json:"shipping_address"`
}

// UpdateOrderRequest is a typed patch for PUT /orders/{id}. Nil fields are
// left untouched. Status may be overwritten directly here, bypassing the
// transition endpoints. TotalAmount has no field: the creation-time
// snapshot is immutable.
type UpdateOrderRequest struct {
	ShippingAddress *string `json:"shipping_address,omitempty"`
	Status          *Status `json:"order_status,omitempty"`
}
