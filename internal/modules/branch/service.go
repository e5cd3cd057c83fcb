package branch

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// Service defines branch business logic, including the manager-assignment
// rules and the explicit deactivation cascade.
type Service interface {
	CreateBranch(ctx context.Context, req CreateBranchRequest) (*Branch, error)
	GetBranch(ctx context.Context, id string) (*Branch, error)
	ListBranches(ctx context.Context) ([]*Branch, error)
	UpdateBranch(ctx context.Context, id string, req UpdateBranchRequest) (*Branch, error)
	DeleteBranch(ctx context.Context, id string) error

	// AssignAccount affiliates a Manager account with an active branch.
	AssignAccount(ctx context.Context, branchID, accountID string) error

	// RemoveAccount detaches an account from the branch it belongs to.
	RemoveAccount(ctx context.Context, branchID, accountID string) error

	// UpdateRole bulk-updates the role of every account on the branch.
	UpdateRole(ctx context.Context, branchID string, req UpdateRoleRequest) error

	// Deactivate retires the branch and explicitly clears the affiliation
	// of every account assigned to it.
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	accountRepo account.Repository
}

// NewService creates a new branch service.
func NewService(repo Repository, accountRepo account.Repository) Service {
	return &service{repo: repo, accountRepo: accountRepo}
}

func (s *service) CreateBranch(ctx context.Context, req CreateBranchRequest) (*Branch, error) {
	if req.Name == "" || req.Location == "" {
		return nil, apperr.Validation("name and location are required")
	}

	if existing, err := s.repo.GetBranchByLocation(ctx, req.Location); err == nil && existing != nil {
		return nil, apperr.Conflict("location %q is already registered", req.Location)
	}

	b := &Branch{
		ID:       uuid.New(),
		Name:     req.Name,
		Location: req.Location,
		Status:   StatusActive,
	}
	if err := s.repo.CreateBranch(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBranch(ctx context.Context, id string) (*Branch, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Accounts = members
	return b, nil
}

func (s *service) ListBranches(ctx context.Context) ([]*Branch, error) {
	return s.repo.ListBranches(ctx)
}

func (s *service) UpdateBranch(ctx context.Context, id string, req UpdateBranchRequest) (*Branch, error) {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusDeactivated {
		return nil, apperr.Conflict("cannot update a deactivated branch")
	}

	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Location != nil {
		if existing, err := s.repo.GetBranchByLocation(ctx, *req.Location); err == nil && existing != nil && existing.ID != b.ID {
			return nil, apperr.Conflict("location %q is already registered", *req.Location)
		}
		b.Location = *req.Location
	}

	if err := s.repo.UpdateBranch(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBranch(ctx context.Context, id string) error {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteBranch(ctx, b.ID)
}

func (s *service) AssignAccount(ctx context.Context, branchID, accountID string) error {
	b, err := s.getByID(ctx, branchID)
	if err != nil {
		return err
	}
	if b.Status == StatusDeactivated {
		return apperr.Conflict("branch is deactivated")
	}

	a, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return apperr.NotFound("account not found")
	}
	if a.BranchID != nil && *a.BranchID == b.ID {
		return apperr.Conflict("account is already assigned to this branch")
	}
	if a.Role != account.RoleManager {
		return apperr.Validation("only managers can be assigned to a branch")
	}

	return s.accountRepo.SetBranch(ctx, accountID, &b.ID)
}

func (s *service) RemoveAccount(ctx context.Context, branchID, accountID string) error {
	b, err := s.getByID(ctx, branchID)
	if err != nil {
		return err
	}

	a, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil || a.BranchID == nil || *a.BranchID != b.ID {
		return apperr.NotFound("account not found or not assigned to this branch")
	}

	return s.accountRepo.SetBranch(ctx, accountID, nil)
}

func (s *service) UpdateRole(ctx context.Context, branchID string, req UpdateRoleRequest) error {
	b, err := s.getByID(ctx, branchID)
	if err != nil {
		return err
	}
	if req.Role == "" {
		return apperr.Validation("role is required")
	}
	if !req.Role.Valid() {
		return apperr.Validation("unknown role %q", req.Role)
	}
	return s.repo.UpdateMemberRoles(ctx, b.ID, req.Role)
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status == StatusDeactivated {
		return apperr.Conflict("branch is already deactivated")
	}

	if err := s.repo.SetStatus(ctx, b.ID, StatusDeactivated); err != nil {
		return err
	}

	// Detach members explicitly rather than leaning on database cascades.
	if _, err := s.repo.ClearMembers(ctx, b.ID); err != nil {
		return err
	}
	return nil
}

func (s *service) Reactivate(ctx context.Context, id string) error {
	b, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status == StatusActive {
		return apperr.Conflict("branch is already active")
	}
	return s.repo.SetStatus(ctx, b.ID, StatusActive)
}

func (s *service) getByID(ctx context.Context, id string) (*Branch, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid branch id: %v", err)
	}
	b, err := s.repo.GetBranchByID(ctx, bid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("branch not found")
		}
		return nil, err
	}
	return b, nil
}
