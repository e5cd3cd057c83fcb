package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
	"github.com/lubinda/stockline-backend/internal/modules/catalog"
	"github.com/lubinda/stockline-backend/internal/modules/inventory"
)

// Service is the order lifecycle engine: it owns the order state machine
// and coordinates the catalog gate and the inventory ledger around it.
type Service interface {
	// Create admits a new order: the account must exist, the product must
	// pass the catalog gate, and the requested quantity is debited from the
	// inventory ledger in one atomic step.
	Create(ctx context.Context, accountID uuid.UUID, req CreateOrderRequest) (*Order, error)

	Get(ctx context.Context, id string) (*Order, error)

	// List applies the role-based view filter: Users see their own
	// non-cancelled orders, Admin and Manager see every live order.
	List(ctx context.Context, role account.Role, accountID uuid.UUID) ([]*Order, error)

	Update(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error)

	// Cancel is terminal from pending or processing. It never restores
	// debited inventory and additionally marks the product unavailable.
	Cancel(ctx context.Context, id string) (*Order, error)

	Process(ctx context.Context, id string) error
	Ship(ctx context.Context, id string) error
	Deliver(ctx context.Context, id string) error

	// TrackStatus returns the status of an order owned by the account.
	TrackStatus(ctx context.Context, id string, accountID uuid.UUID) (Status, error)
}

type service struct {
	repo        Repository
	accountRepo account.Repository
	gate        catalog.Service
	ledger      inventory.Service
	logger      *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, accountRepo account.Repository, gate catalog.Service, ledger inventory.Service, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		accountRepo: accountRepo,
		gate:        gate,
		ledger:      ledger,
		logger:      logger,
	}
}

func (s *service) Create(ctx context.Context, accountID uuid.UUID, req CreateOrderRequest) (*Order, error) {
	if req.ShippingAddress == "" {
		return nil, apperr.Validation("shipping address is required")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	if _, err := s.accountRepo.GetAccountByID(ctx, accountID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, err
	}

	product, err := s.gate.AssertActive(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// The debit is the atomic availability check: the conditional decrement
	// either reserves the full quantity or fails with the available count.
	if err := s.ledger.Debit(ctx, req.ProductID, quantity); err != nil {
		return nil, err
	}

	o := &Order{
		ID:              uuid.New(),
		AccountID:       accountID,
		ProductID:       product.ID,
		Quantity:        quantity,
		TotalAmount:     product.Price * float64(quantity),
		ShippingAddress: req.ShippingAddress,
		Status:          StatusPending,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		// Stock was already reserved; hand it back before failing.
		if cerr := s.ledger.Credit(ctx, req.ProductID, quantity); cerr != nil {
			s.logger.Error("failed to restore stock after order insert failure",
				zap.String("product_id", req.ProductID),
				zap.Int("quantity", quantity),
				zap.Error(cerr))
		}
		return nil, err
	}

	return s.repo.GetDetailed(ctx, o.ID)
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id: %v", err)
	}
	o, err := s.repo.GetDetailed(ctx, oid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	return o, nil
}

func (s *service) List(ctx context.Context, role account.Role, accountID uuid.UUID) ([]*Order, error) {
	if role == account.RoleUser {
		return s.repo.ListByAccount(ctx, accountID)
	}
	return s.repo.ListByStatuses(ctx, []Status{
		StatusPending, StatusProcessing, StatusShipped, StatusDelivered,
	})
}

func (s *service) Update(ctx context.Context, id string, req UpdateOrderRequest) (*Order, error) {
	o, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled {
		return nil, apperr.Conflict("cannot update a cancelled order")
	}

	if req.ShippingAddress != nil {
		if *req.ShippingAddress == "" {
			return nil, apperr.Validation("shipping address must not be empty")
		}
		o.ShippingAddress = *req.ShippingAddress
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.Validation("unknown order status %q", *req.Status)
		}
		o.Status = *req.Status
	}

	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Order, error) {
	o, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.Status == StatusCancelled {
		return nil, apperr.Conflict("order is already cancelled")
	}
	if o.Status == StatusShipped || o.Status == StatusDelivered {
		return nil, apperr.InvalidTransition("cannot cancel order that has been shipped or delivered")
	}

	if err := s.repo.UpdateStatus(ctx, o.ID, StatusCancelled); err != nil {
		return nil, err
	}
	o.Status = StatusCancelled

	// Cancelled units are not credited back to the ledger; the product is
	// only flagged unavailable until someone restocks and re-enables it.
	if err := s.gate.SetAvailability(ctx, o.ProductID.String(), false); err != nil {
		s.logger.Warn("could not mark product unavailable after cancellation",
			zap.String("product_id", o.ProductID.String()),
			zap.Error(err))
	}

	return o, nil
}

func (s *service) Process(ctx context.Context, id string) error {
	return s.forward(ctx, id, StatusProcessing, "process")
}

func (s *service) Ship(ctx context.Context, id string) error {
	return s.forward(ctx, id, StatusShipped, "ship")
}

func (s *service) Deliver(ctx context.Context, id string) error {
	return s.forward(ctx, id, StatusDelivered, "deliver")
}

// forward applies a forward transition. Only cancellation is guarded
// against: the source system never enforced strict predecessor ordering
// for process/ship/deliver and callers rely on that.
func (s *service) forward(ctx context.Context, id string, next Status, verb string) error {
	o, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == StatusCancelled {
		return apperr.Conflict("cannot %s a cancelled order", verb)
	}
	return s.repo.UpdateStatus(ctx, o.ID, next)
}

func (s *service) TrackStatus(ctx context.Context, id string, accountID uuid.UUID) (Status, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return "", apperr.Validation("invalid order id: %v", err)
	}
	status, err := s.repo.GetStatusForAccount(ctx, oid, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("order not found or unauthorized access")
		}
		return "", err
	}
	return status, nil
}

func (s *service) getByID(ctx context.Context, id string) (*Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id: %v", err)
	}
	o, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	return o, nil
}
