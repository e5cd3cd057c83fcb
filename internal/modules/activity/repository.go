package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines activity-log data storage.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, f Filters) ([]*Entry, error)

	// PruneOldest deletes all but the `keep` newest entries for the account
	// and returns how many rows were removed.
	PruneOldest(ctx context.Context, accountID uuid.UUID, keep int) (int, error)
}
