package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/apperr"
)

// Service is the inventory ledger: the single owner of stock quantity and
// reorder-threshold state. No other component writes inventory rows.
type Service interface {
	// Debit atomically reserves amount units of stock. Callers must have
	// confirmed the product active through the catalog gate first.
	Debit(ctx context.Context, productID string, amount int) error

	// Credit restores or adds stock. Restock and seeding only: order
	// cancellation never credits.
	Credit(ctx context.Context, productID string, amount int) error

	// Seed creates the inventory row for a newly catalogued product.
	Seed(ctx context.Context, productID uuid.UUID, quantity int) error

	SetStock(ctx context.Context, req UpdateStockRequest) (*Inventory, error)
	SetReorderPoint(ctx context.Context, req SetReorderPointRequest) (*Inventory, error)
	List(ctx context.Context) ([]*ListItem, error)
	ListLowStock(ctx context.Context) ([]*ListItem, error)
	CheckAvailability(ctx context.Context, productID string) (*Availability, error)
}

type service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Debit(ctx context.Context, productID string, amount int) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return apperr.Validation("invalid product id: %v", err)
	}
	if amount <= 0 {
		return apperr.Validation("debit amount must be positive")
	}

	ok, err := s.repo.DecrementStock(ctx, pid, amount)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	// The conditional decrement touched no row: either there is no
	// inventory for the product, or stock was short. The re-read is only
	// for the error message; the decrement itself is what is atomic.
	inv, err := s.repo.GetByProduct(ctx, pid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("inventory not found for this product")
		}
		return err
	}
	return apperr.InsufficientStock(inv.Quantity)
}

func (s *service) Credit(ctx context.Context, productID string, amount int) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return apperr.Validation("invalid product id: %v", err)
	}
	if amount <= 0 {
		return apperr.Validation("credit amount must be positive")
	}

	ok, err := s.repo.IncrementStock(ctx, pid, amount)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("inventory not found for this product")
	}
	return nil
}

func (s *service) Seed(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return apperr.Validation("seed quantity must not be negative")
	}
	return s.repo.CreateInventory(ctx, &Inventory{
		ID:           uuid.New(),
		ProductID:    productID,
		Quantity:     quantity,
		ReorderPoint: DefaultReorderPoint,
	})
}

func (s *service) SetStock(ctx context.Context, req UpdateStockRequest) (*Inventory, error) {
	if req.ProductID == "" {
		return nil, apperr.Validation("product id is required")
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %v", err)
	}
	if req.Quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}

	ok, err := s.repo.SetQuantity(ctx, pid, req.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("inventory not found for this product")
	}
	return s.repo.GetByProduct(ctx, pid)
}

func (s *service) SetReorderPoint(ctx context.Context, req SetReorderPointRequest) (*Inventory, error) {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %v", err)
	}
	if req.ReorderPoint < 0 {
		return nil, apperr.Validation("reorder point must not be negative")
	}

	ok, err := s.repo.SetReorderPoint(ctx, pid, req.ReorderPoint)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("inventory not found for this product")
	}
	return s.repo.GetByProduct(ctx, pid)
}

func (s *service) List(ctx context.Context) ([]*ListItem, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListLowStock(ctx context.Context) ([]*ListItem, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *service) CheckAvailability(ctx context.Context, productID string) (*Availability, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %v", err)
	}
	av, err := s.repo.GetAvailability(ctx, pid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product not found or not active")
		}
		return nil, err
	}
	return av, nil
}
