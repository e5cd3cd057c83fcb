package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetByName(ctx context.Context, name string) (*Product, error)
	List(ctx context.Context, activeOnly bool) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	SetStatus(ctx context.Context, id uuid.UUID, status ProductStatus) error
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
}
