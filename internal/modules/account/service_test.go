package account

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lubinda/stockline-backend/internal/apperr"
)

type fakeRepo struct {
	accounts map[uuid.UUID]*Account
	// getErr forces lookups to fail, for the infrastructure-error path.
	getErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[uuid.UUID]*Account)}
}

func (f *fakeRepo) CreateAccount(ctx context.Context, a *Account) error {
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	a, ok := f.accounts[parsed]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListAccounts(ctx context.Context) ([]*Account, error) {
	var out []*Account
	for _, a := range f.accounts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) CountAccounts(ctx context.Context) (int, error) {
	return len(f.accounts), nil
}

func (f *fakeRepo) UpdateAccount(ctx context.Context, a *Account) error {
	if _, ok := f.accounts[a.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAccount(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	delete(f.accounts, parsed)
	return nil
}

func (f *fakeRepo) SetBranch(ctx context.Context, accountID string, branchID *uuid.UUID) error {
	parsed, err := uuid.Parse(accountID)
	if err != nil {
		return err
	}
	a, ok := f.accounts[parsed]
	if !ok {
		return sql.ErrNoRows
	}
	a.BranchID = branchID
	return nil
}

type fakeSender struct {
	sent []string
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.fail {
		return assert.AnError
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeRecorder struct {
	actions []string
}

func (f *fakeRecorder) Record(ctx context.Context, accountID uuid.UUID, action, details string) {
	f.actions = append(f.actions, action)
}

func newService(repo *fakeRepo) (Service, *fakeSender, *fakeRecorder) {
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	return NewService(repo, sender, recorder, zap.NewNop()), sender, recorder
}

func TestRegister_FirstAccountIsAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc, sender, recorder := newService(repo)

	first, err := svc.Register(context.Background(), RegisterRequest{
		Email: "founder@example.com", Password: "hunter2", FirstName: "Fay",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, first.Role)
	assert.True(t, first.Verified)

	second, err := svc.Register(context.Background(), RegisterRequest{
		Email: "staff@example.com", Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, second.Role)

	assert.Equal(t, []string{"founder@example.com", "staff@example.com"}, sender.sent)
	assert.Equal(t, []string{"register", "register"}, recorder.actions)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newService(repo)

	a, err := svc.Register(context.Background(), RegisterRequest{
		Email: "x@example.com", Password: "hunter2",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", a.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("hunter2")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "x@example.com", Password: "a"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "x@example.com", Password: "b"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestRegister_RequiresEmailAndPassword(t *testing.T) {
	svc, _, _ := newService(newFakeRepo())

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "x@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Register(context.Background(), RegisterRequest{Password: "hunter2"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegister_SurvivesEmailFailure(t *testing.T) {
	repo := newFakeRepo()
	sender := &fakeSender{fail: true}
	svc := NewService(repo, sender, &fakeRecorder{}, zap.NewNop())

	a, err := svc.Register(context.Background(), RegisterRequest{
		Email: "x@example.com", Password: "hunter2",
	})
	require.NoError(t, err, "welcome email delivery is fire-and-forget")
	assert.NotNil(t, repo.accounts[a.ID])
}

func TestUpdateAccount_PatchesAndValidatesRole(t *testing.T) {
	repo := newFakeRepo()
	svc, _, recorder := newService(repo)

	a, err := svc.Register(context.Background(), RegisterRequest{Email: "x@example.com", Password: "a"})
	require.NoError(t, err)

	role := RoleManager
	updated, err := svc.UpdateAccount(context.Background(), a.ID.String(), UpdateRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, RoleManager, updated.Role)
	assert.Contains(t, recorder.actions, "update")

	bogus := Role("Overlord")
	_, err = svc.UpdateAccount(context.Background(), a.ID.String(), UpdateRequest{Role: &bogus})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetAccount_RepositoryFailureIsNotNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = assert.AnError
	svc, _, _ := newService(repo)

	_, err := svc.GetAccount(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err), "a failing lookup is not a missing account")
}

func TestGetAccount_UnknownAccount(t *testing.T) {
	svc, _, _ := newService(newFakeRepo())

	_, err := svc.GetAccount(context.Background(), uuid.New().String())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateAccount_Unknown(t *testing.T) {
	svc, _, _ := newService(newFakeRepo())

	name := "x"
	_, err := svc.UpdateAccount(context.Background(), uuid.New().String(), UpdateRequest{FirstName: &name})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newService(repo)

	a, err := svc.Register(context.Background(), RegisterRequest{Email: "x@example.com", Password: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), a.ID.String()))
	assert.Empty(t, repo.accounts)

	err = svc.DeleteAccount(context.Background(), a.ID.String())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
