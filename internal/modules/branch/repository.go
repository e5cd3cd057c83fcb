package branch

import (
	"context"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// Repository defines branch data storage.
type Repository interface {
	CreateBranch(ctx context.Context, b *Branch) error
	GetBranchByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	GetBranchByLocation(ctx context.Context, location string) (*Branch, error)
	ListBranches(ctx context.Context) ([]*Branch, error)
	UpdateBranch(ctx context.Context, b *Branch) error
	DeleteBranch(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status BranchStatus) error

	// ListMembers returns the accounts affiliated with the branch.
	ListMembers(ctx context.Context, branchID uuid.UUID) ([]*Member, error)

	// ClearMembers removes the branch affiliation from every member and
	// returns how many accounts were detached. The cascade is explicit: it
	// is this call, not a database constraint, that detaches accounts.
	ClearMembers(ctx context.Context, branchID uuid.UUID) (int, error)

	// UpdateMemberRoles sets the role of every member of the branch.
	UpdateMemberRoles(ctx context.Context, branchID uuid.UUID, role account.Role) error
}
