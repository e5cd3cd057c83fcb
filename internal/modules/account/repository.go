package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines account data storage.
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	CountAccounts(ctx context.Context) (int, error)
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id string) error

	// SetBranch updates (or clears, with nil) an account's branch affiliation.
	SetBranch(ctx context.Context, accountID string, branchID *uuid.UUID) error
}
