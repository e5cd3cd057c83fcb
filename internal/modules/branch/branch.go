package branch

import (
	"time"

	"github.com/google/uuid"

	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// BranchStatus is the admission state of a branch.
type BranchStatus string

const (
	StatusActive      BranchStatus = "active"
	StatusDeactivated BranchStatus = "deactivated"
)

// Branch is a scoping entity accounts with role Manager may be assigned to.
type Branch struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Location  string       `json:"location"`
	Status    BranchStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Accounts []*Member `json:"accounts,omitempty"`
}

// Member is the slice of account data shown on a branch.
type Member struct {
	ID        uuid.UUID    `json:"id"`
	FirstName string       `json:"first_name,omitempty"`
	LastName  string       `json:"last_name,omitempty"`
	Email     string       `json:"email"`
	Role      account.Role `json:"role"`
}

// CreateBranchRequest is the payload for creating a branch.
type CreateBranchRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UpdateBranchRequest is a typed patch for branch updates.
type UpdateBranchRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
}

// AssignRequest names the account to add to or remove from a branch.
type AssignRequest struct {
	AccountID string `json:"account_id"`
}

// UpdateRoleRequest is the payload for bulk-updating member roles.
type UpdateRoleRequest struct {
	Role account.Role `json:"role"`
}
