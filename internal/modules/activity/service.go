package activity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder captures account activity as a side effect of other operations.
// Record must never fail the operation that triggered it.
type Recorder interface {
	Record(ctx context.Context, accountID uuid.UUID, action, details string)
}

// Service defines activity-log business logic.
type Service interface {
	Recorder
	ListForAccount(ctx context.Context, accountID string, f Filters) ([]*Entry, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

// Record inserts a log entry and prunes the account's history down to the
// retention window. All failures are swallowed: activity logging is a
// fire-and-forget side effect of the primary operation.
func (s *service) Record(ctx context.Context, accountID uuid.UUID, action, details string) {
	e := &Entry{
		ID:        uuid.New(),
		AccountID: accountID,
		Action:    action,
		Details:   details,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		s.logger.Warn("activity log write failed",
			zap.String("account_id", accountID.String()),
			zap.String("action", action),
			zap.Error(err))
		return
	}

	deleted, err := s.repo.PruneOldest(ctx, accountID, keepPerAccount)
	if err != nil {
		s.logger.Warn("activity log prune failed",
			zap.String("account_id", accountID.String()),
			zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Debug("pruned activity log",
			zap.String("account_id", accountID.String()),
			zap.Int("deleted", deleted))
	}
}

func (s *service) ListForAccount(ctx context.Context, accountID string, f Filters) ([]*Entry, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, id, f)
}
