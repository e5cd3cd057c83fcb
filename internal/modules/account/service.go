package account

import "context"

// Service defines the interface for account-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	UpdateAccount(ctx context.Context, id string, req UpdateRequest) (*Account, error)
	DeleteAccount(ctx context.Context, id string) error
}
