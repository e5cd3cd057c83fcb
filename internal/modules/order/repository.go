package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	CreateOrder(ctx context.Context, o *Order) error

	// GetByID retrieves a bare order without summaries.
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetDetailed retrieves an order joined with its account and product
	// summaries.
	GetDetailed(ctx context.Context, id uuid.UUID) (*Order, error)

	// GetStatusForAccount returns the status of an order only when it
	// belongs to the given account.
	GetStatusForAccount(ctx context.Context, id, accountID uuid.UUID) (Status, error)

	// ListByStatuses returns orders in any of the given statuses, newest
	// first, with account and product summaries.
	ListByStatuses(ctx context.Context, statuses []Status) ([]*Order, error)

	// ListByAccount returns the account's non-cancelled orders, newest
	// first, with product summaries.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Order, error)

	UpdateOrder(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
