package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
	"github.com/lubinda/stockline-backend/internal/modules/inventory"
)

// Service is the catalog gate: it owns product admission (active versus
// deactivated) and the product CRUD surface.
type Service interface {
	// AssertActive fetches the product and fails unless it is active. Every
	// order admission and inventory-touching write goes through this gate.
	AssertActive(ctx context.Context, productID string) (*Product, error)

	// CreateProduct upserts by unique name: a known name restocks its
	// inventory, a new name inserts the product and seeds an inventory row.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*CreateProductResult, error)

	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, role account.Role) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)

	// Deactivate retires a product. It refuses while sellable stock remains
	// so deactivation can never strand inventory.
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error

	// SetAvailability flips the coarse availability flag without touching
	// the catalog status.
	SetAvailability(ctx context.Context, id string, available bool) error
}

type service struct {
	repo   Repository
	ledger inventory.Service
}

// NewService creates a new catalog service.
func NewService(repo Repository, ledger inventory.Service) Service {
	return &service{repo: repo, ledger: ledger}
}

func (s *service) AssertActive(ctx context.Context, productID string) (*Product, error) {
	p, err := s.getByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusActive {
		return nil, apperr.Conflict("product is not available")
	}
	return p, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*CreateProductResult, error) {
	if req.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if req.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if existing != nil {
		if err := s.ledger.Credit(ctx, existing.ID.String(), quantity); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				// Product rows without inventory should not happen, but the
				// original tolerates it by creating the row on demand.
				if err := s.ledger.Seed(ctx, existing.ID, quantity); err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		return &CreateProductResult{
			Message: "Product already exists, inventory updated",
			Product: existing,
		}, nil
	}

	p := &Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Status:      StatusActive,
		Available:   true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.ledger.Seed(ctx, p.ID, quantity); err != nil {
		return nil, err
	}
	return &CreateProductResult{Message: "New product created", Product: p}, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.getByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, role account.Role) ([]*Product, error) {
	activeOnly := role != account.RoleAdmin && role != account.RoleManager
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		p.Price = *req.Price
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	p, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status == StatusDeactivated {
		return apperr.Conflict("product is already deactivated")
	}

	av, err := s.ledger.CheckAvailability(ctx, p.ID.String())
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	if av != nil && av.Quantity > 0 {
		return apperr.Conflict("cannot deactivate product with remaining inventory")
	}

	return s.repo.SetStatus(ctx, p.ID, StatusDeactivated)
}

func (s *service) Reactivate(ctx context.Context, id string) error {
	p, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status == StatusActive {
		return apperr.Conflict("product is already active")
	}
	return s.repo.SetStatus(ctx, p.ID, StatusActive)
}

func (s *service) SetAvailability(ctx context.Context, id string, available bool) error {
	p, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetAvailable(ctx, p.ID, available)
}

func (s *service) getByID(ctx context.Context, id string) (*Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %v", err)
	}
	p, err := s.repo.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	return p, nil
}
