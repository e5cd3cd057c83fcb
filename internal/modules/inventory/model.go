package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Inventory tracks the stock position for exactly one product.
// Quantity never goes below zero: every debit is a conditional decrement
// checked at the database, not in application code.
type Inventory struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        uuid.UUID  `json:"product_id"`
	Quantity         int        `json:"quantity"`
	ReorderPoint     int        `json:"reorder_point"`
	LastReorderAlert *time.Time `json:"last_reorder_alert,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DefaultReorderPoint is applied to newly seeded inventory rows.
const DefaultReorderPoint = 10

// ListItem is an inventory row joined with its (active) product.
type ListItem struct {
	Inventory
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
}

// Availability is the stock snapshot for a single active product. A product
// without an inventory row reports zero quantity.
type Availability struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	ReorderPoint int       `json:"reorder_point"`
}

// UpdateStockRequest is the payload for POST /inventory: an absolute
// quantity overwrite for an active product's stock.
type UpdateStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SetReorderPointRequest is the payload for POST /inventory/reorder-point.
type SetReorderPointRequest struct {
	ProductID    string `json:"product_id"`
	ReorderPoint int    `json:"reorder_point"`
}
