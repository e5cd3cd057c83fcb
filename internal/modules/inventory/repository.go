package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines inventory data storage.
type Repository interface {
	CreateInventory(ctx context.Context, inv *Inventory) error
	GetByProduct(ctx context.Context, productID uuid.UUID) (*Inventory, error)

	// DecrementStock atomically subtracts amount from the product's quantity,
	// but only when at least that much is on hand. It reports whether a row
	// was actually updated; false means no row exists or stock was short.
	DecrementStock(ctx context.Context, productID uuid.UUID, amount int) (bool, error)

	// IncrementStock adds amount to the product's quantity. Reports whether
	// an inventory row exists for the product.
	IncrementStock(ctx context.Context, productID uuid.UUID, amount int) (bool, error)

	// SetQuantity overwrites the quantity for a product whose catalog entry
	// is active. Reports whether a row was updated.
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)

	// SetReorderPoint updates the low-stock threshold. Reports whether a row
	// was updated.
	SetReorderPoint(ctx context.Context, productID uuid.UUID, value int) (bool, error)

	// ListAll returns every inventory row joined to an active product.
	ListAll(ctx context.Context) ([]*ListItem, error)

	// ListLowStock returns rows with quantity <= reorder_point joined to an
	// active product.
	ListLowStock(ctx context.Context) ([]*ListItem, error)

	// GetAvailability returns the stock snapshot for an active product,
	// zero-filled when the product has no inventory row yet.
	GetAvailability(ctx context.Context, productID uuid.UUID) (*Availability, error)
}
