package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/notification"
)

// Recorder captures account activity as a side effect of other operations.
// Record must never fail the operation that triggered it. It is satisfied by
// the activity module's Recorder; it is redeclared here so this package does
// not import activity, which imports account for its route middleware.
type Recorder interface {
	Record(ctx context.Context, accountID uuid.UUID, action, details string)
}

type service struct {
	repo     Repository
	sender   notification.Sender
	activity Recorder
	logger   *zap.Logger
}

// NewService creates a new account service.
func NewService(repo Repository, sender notification.Sender, recorder Recorder, logger *zap.Logger) Service {
	return &service{repo: repo, sender: sender, activity: recorder, logger: logger}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	if existing, err := s.repo.GetAccountByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperr.Conflict("email %q is already registered", req.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// The first registered account becomes the Admin; everyone after is a
	// plain User until an Admin promotes them.
	count, err := s.repo.CountAccounts(ctx)
	if err != nil {
		return nil, err
	}
	role := RoleUser
	if count == 0 {
		role = RoleAdmin
	}

	a := &Account{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Verified:     true,
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	// Welcome email is fire-and-forget: delivery failure must never fail
	// the registration itself.
	if err := s.sender.Send(ctx, a.Email, "Welcome",
		fmt.Sprintf("<p>Your account %s has been created.</p>", a.Email)); err != nil {
		s.logger.Warn("welcome email not delivered",
			zap.String("email", a.Email), zap.Error(err))
	}

	s.activity.Record(ctx, a.ID, "register", "account created")

	return a, nil
}

func (s *service) GetAccount(ctx context.Context, id string) (*Account, error) {
	return s.getByID(ctx, id)
}

func (s *service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *service) UpdateAccount(ctx context.Context, id string, req UpdateRequest) (*Account, error) {
	a, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperr.Validation("unknown role %q", *req.Role)
		}
		a.Role = *req.Role
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, a.ID, "update", "profile updated")
	return a, nil
}

func (s *service) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteAccount(ctx, id)
}

func (s *service) getByID(ctx context.Context, id string) (*Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.Validation("invalid account id: %v", err)
	}
	a, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("account not found")
		}
		return nil, err
	}
	return a, nil
}
