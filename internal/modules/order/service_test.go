package order

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
	"github.com/lubinda/stockline-backend/internal/modules/catalog"
	"github.com/lubinda/stockline-backend/internal/modules/inventory"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*Order
	// failCreate forces CreateOrder to fail, for the compensation path.
	failCreate bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*Order)}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return assert.AnError
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) GetDetailed(ctx context.Context, id uuid.UUID) (*Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) GetStatusForAccount(ctx context.Context, id, accountID uuid.UUID) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.AccountID != accountID {
		return "", sql.ErrNoRows
	}
	return o.Status, nil
}

func (f *fakeOrderRepo) ListByStatuses(ctx context.Context, statuses []Status) ([]*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Order
	for _, o := range f.orders {
		for _, s := range statuses {
			if o.Status == s {
				cp := *o
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Order
	for _, o := range f.orders {
		if o.AccountID == accountID && o.Status != StatusCancelled {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateOrder(ctx context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	return nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*account.Account
	// getErr forces lookups to fail, for the infrastructure-error path.
	getErr error
}

func (f *fakeAccountRepo) GetAccountByID(ctx context.Context, id string) (*account.Account, error) {
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
	return a, nil
}

func (f *fakeAccountRepo) CreateAccount(ctx context.Context, a *account.Account) error { return nil }
func (f *fakeAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*account.Account, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeAccountRepo) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return nil, nil
}
func (f *fakeAccountRepo) CountAccounts(ctx context.Context) (int, error)              { return 0, nil }
func (f *fakeAccountRepo) UpdateAccount(ctx context.Context, a *account.Account) error { return nil }
func (f *fakeAccountRepo) DeleteAccount(ctx context.Context, id string) error          { return nil }
func (f *fakeAccountRepo) SetBranch(ctx context.Context, accountID string, branchID *uuid.UUID) error {
	return nil
}

// fakeGate is a minimal catalog gate over an in-memory product table.
type fakeGate struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func (f *fakeGate) AssertActive(ctx context.Context, productID string) (*catalog.Product, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[pid]
	if !ok {
		return nil, apperr.NotFound("product not found")
	}
	if p.Status != catalog.StatusActive {
		return nil, apperr.Conflict("product is not available")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeGate) SetAvailability(ctx context.Context, id string, available bool) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[pid]
	if !ok {
		return apperr.NotFound("product not found")
	}
	p.Available = available
	return nil
}

func (f *fakeGate) CreateProduct(ctx context.Context, req catalog.CreateProductRequest) (*catalog.CreateProductResult, error) {
	return nil, nil
}
func (f *fakeGate) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeGate) ListProducts(ctx context.Context, role account.Role) ([]*catalog.Product, error) {
	return nil, nil
}
func (f *fakeGate) UpdateProduct(ctx context.Context, id string, req catalog.UpdateProductRequest) (*catalog.Product, error) {
	return nil, nil
}
func (f *fakeGate) Deactivate(ctx context.Context, id string) error { return nil }
func (f *fakeGate) Reactivate(ctx context.Context, id string) error { return nil }

// fakeLedger implements the check-and-debit atomically under one lock,
// matching the conditional-decrement contract of the real ledger.
type fakeLedger struct {
	mu    sync.Mutex
	stock map[uuid.UUID]int
}

func (f *fakeLedger) Debit(ctx context.Context, productID string, amount int) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return apperr.Validation("invalid product id: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.stock[pid]
	if !ok {
		return apperr.NotFound("inventory not found for this product")
	}
	if qty < amount {
		return apperr.InsufficientStock(qty)
	}
	f.stock[pid] = qty - amount
	return nil
}

func (f *fakeLedger) Credit(ctx context.Context, productID string, amount int) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[pid] += amount
	return nil
}

func (f *fakeLedger) quantity(pid uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stock[pid]
}

func (f *fakeLedger) Seed(ctx context.Context, productID uuid.UUID, quantity int) error { return nil }
func (f *fakeLedger) SetStock(ctx context.Context, req inventory.UpdateStockRequest) (*inventory.Inventory, error) {
	return nil, nil
}
func (f *fakeLedger) SetReorderPoint(ctx context.Context, req inventory.SetReorderPointRequest) (*inventory.Inventory, error) {
	return nil, nil
}
func (f *fakeLedger) List(ctx context.Context) ([]*inventory.ListItem, error)         { return nil, nil }
func (f *fakeLedger) ListLowStock(ctx context.Context) ([]*inventory.ListItem, error) { return nil, nil }
func (f *fakeLedger) CheckAvailability(ctx context.Context, productID string) (*inventory.Availability, error) {
	return nil, nil
}

// ── fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	svc       Service
	repo      *fakeOrderRepo
	gate      *fakeGate
	ledger    *fakeLedger
	accountID uuid.UUID
	productID uuid.UUID
}

// newFixture wires a service around one account and one active product with
// price 10.00 and the given stock.
func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()

	accountID := uuid.New()
	productID := uuid.New()

	repo := newFakeOrderRepo()
	gate := &fakeGate{products: map[uuid.UUID]*catalog.Product{
		productID: {ID: productID, Name: "Widget", Price: 10.00, Status: catalog.StatusActive, Available: true},
	}}
	ledger := &fakeLedger{stock: map[uuid.UUID]int{productID: stock}}
	accounts := &fakeAccountRepo{accounts: map[uuid.UUID]*account.Account{
		accountID: {ID: accountID, Email: "buyer@example.com", Role: account.RoleUser},
	}}

	svc := NewService(repo, accounts, gate, ledger, zap.NewNop())
	return &fixture{svc: svc, repo: repo, gate: gate, ledger: ledger, accountID: accountID, productID: productID}
}

func (fx *fixture) place(t *testing.T, quantity int) *Order {
	t.Helper()
	o, err := fx.svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
		ProductID:       fx.productID.String(),
		Quantity:        quantity,
		ShippingAddress: "12 Cairo Rd, Lusaka",
	})
	require.NoError(t, err)
	return o
}

// ── create ────────────────────────────────────────────────────────────────────

func TestCreate_SnapshotsTotalAndDebitsStock(t *testing.T) {
	fx := newFixture(t, 5)

	o := fx.place(t, 2)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 20.00, o.TotalAmount)
	assert.Equal(t, 2, o.Quantity)
	assert.Equal(t, 3, fx.ledger.quantity(fx.productID))
}

func TestCreate_QuantityDefaultsToOne(t *testing.T) {
	fx := newFixture(t, 5)

	o := fx.place(t, 0)

	assert.Equal(t, 1, o.Quantity)
	assert.Equal(t, 10.00, o.TotalAmount)
	assert.Equal(t, 4, fx.ledger.quantity(fx.productID))
}

func TestCreate_UnknownAccount(t *testing.T) {
	fx := newFixture(t, 5)

	_, err := fx.svc.Create(context.Background(), uuid.New(), CreateOrderRequest{
		ProductID:       fx.productID.String(),
		ShippingAddress: "somewhere",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, 5, fx.ledger.quantity(fx.productID))
}

func TestCreate_AccountLookupFailureIsNotNotFound(t *testing.T) {
	fx := newFixture(t, 5)
	accounts := &fakeAccountRepo{getErr: assert.AnError}
	svc := NewService(fx.repo, accounts, fx.gate, fx.ledger, zap.NewNop())

	_, err := svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
		ProductID:       fx.productID.String(),
		ShippingAddress: "somewhere",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err), "a failing lookup is not a missing account")
	assert.Equal(t, 5, fx.ledger.quantity(fx.productID))
}

func TestCreate_DeactivatedProduct(t *testing.T) {
	fx := newFixture(t, 5)
	fx.gate.products[fx.productID].Status = catalog.StatusDeactivated

	_, err := fx.svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
		ProductID:       fx.productID.String(),
		ShippingAddress: "somewhere",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, 5, fx.ledger.quantity(fx.productID))
}

func TestCreate_InsufficientStock(t *testing.T) {
	fx := newFixture(t, 3)

	_, err := fx.svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
		ProductID:       fx.productID.String(),
		Quantity:        4,
		ShippingAddress: "somewhere",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInsufficientStock))
	assert.Contains(t, err.Error(), "Only 3 items available")
	assert.Equal(t, 3, fx.ledger.quantity(fx.productID))
	assert.Empty(t, fx.repo.orders)
}

func TestCreate_MissingShippingAddress(t *testing.T) {
	fx := newFixture(t, 5)

	_, err := fx.svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
		ProductID: fx.productID.String(),
		Quantity:  1,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreate_CompensatesDebitWhenInsertFails(t *testing.T) {
	fx := newFixture(t, 5)
	fx.repo.failCreate = true

	_, err := fx.svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
		ProductID:       fx.productID.String(),
		Quantity:        2,
		ShippingAddress: "somewhere",
	})
	require.Error(t, err)
	assert.Equal(t, 5, fx.ledger.quantity(fx.productID), "reserved stock must be handed back")
}

func TestCreate_ConcurrentLastUnit(t *testing.T) {
	fx := newFixture(t, 1)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.svc.Create(context.Background(), fx.accountID, CreateOrderRequest{
				ProductID:       fx.productID.String(),
				Quantity:        1,
				ShippingAddress: "somewhere",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, shortfalls int
	for err := range results {
		if err == nil {
			successes++
		} else if apperr.Is(err, apperr.KindInsufficientStock) {
			shortfalls++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, shortfalls)
	assert.Equal(t, 0, fx.ledger.quantity(fx.productID))
	assert.Len(t, fx.repo.orders, 1)
}

func TestTotalAmount_ImmuneToLaterPriceChange(t *testing.T) {
	fx := newFixture(t, 5)

	o := fx.place(t, 2)
	fx.gate.products[fx.productID].Price = 99.99

	got, err := fx.svc.Get(context.Background(), o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 20.00, got.TotalAmount)
}

// ── cancel ────────────────────────────────────────────────────────────────────

func TestCancel_FromPending(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 2)

	cancelled, err := fx.svc.Cancel(context.Background(), o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.False(t, fx.gate.products[fx.productID].Available, "cancel marks product unavailable")
	assert.Equal(t, 3, fx.ledger.quantity(fx.productID), "cancel never restores inventory")
}

func TestCancel_FromProcessing(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)
	require.NoError(t, fx.svc.Process(context.Background(), o.ID.String()))

	_, err := fx.svc.Cancel(context.Background(), o.ID.String())
	assert.NoError(t, err)
}

func TestCancel_FromShippedOrDelivered(t *testing.T) {
	for _, advance := range []struct {
		name string
		do   func(fx *fixture, id string) error
	}{
		{"shipped", func(fx *fixture, id string) error { return fx.svc.Ship(context.Background(), id) }},
		{"delivered", func(fx *fixture, id string) error { return fx.svc.Deliver(context.Background(), id) }},
	} {
		t.Run(advance.name, func(t *testing.T) {
			fx := newFixture(t, 5)
			o := fx.place(t, 2)
			require.NoError(t, advance.do(fx, o.ID.String()))

			_, err := fx.svc.Cancel(context.Background(), o.ID.String())
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
			assert.Contains(t, err.Error(), "shipped or delivered")
			assert.Equal(t, 3, fx.ledger.quantity(fx.productID), "failed cancel must not touch inventory")
		})
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)
	_, err := fx.svc.Cancel(context.Background(), o.ID.String())
	require.NoError(t, err)

	_, err = fx.svc.Cancel(context.Background(), o.ID.String())
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCancel_UnknownOrder(t *testing.T) {
	fx := newFixture(t, 5)
	_, err := fx.svc.Cancel(context.Background(), uuid.New().String())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// ── forward transitions ───────────────────────────────────────────────────────

func TestForwardTransitions_BlockedOnlyByCancellation(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)

	require.NoError(t, fx.svc.Process(context.Background(), o.ID.String()))
	require.NoError(t, fx.svc.Ship(context.Background(), o.ID.String()))
	require.NoError(t, fx.svc.Deliver(context.Background(), o.ID.String()))

	got, _ := fx.svc.Get(context.Background(), o.ID.String())
	assert.Equal(t, StatusDelivered, got.Status)
}

func TestForwardTransitions_RejectCancelledOrder(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)
	_, err := fx.svc.Cancel(context.Background(), o.ID.String())
	require.NoError(t, err)

	assert.True(t, apperr.Is(fx.svc.Process(context.Background(), o.ID.String()), apperr.KindConflict))
	assert.True(t, apperr.Is(fx.svc.Ship(context.Background(), o.ID.String()), apperr.KindConflict))
	assert.True(t, apperr.Is(fx.svc.Deliver(context.Background(), o.ID.String()), apperr.KindConflict))
}

// ── update ────────────────────────────────────────────────────────────────────

func TestUpdate_PatchesShippingAddress(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)

	addr := "77 Independence Ave"
	updated, err := fx.svc.Update(context.Background(), o.ID.String(), UpdateOrderRequest{ShippingAddress: &addr})
	require.NoError(t, err)
	assert.Equal(t, addr, updated.ShippingAddress)
	assert.Equal(t, o.TotalAmount, updated.TotalAmount)
}

func TestUpdate_RejectsCancelledOrder(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)
	_, err := fx.svc.Cancel(context.Background(), o.ID.String())
	require.NoError(t, err)

	addr := "nowhere"
	_, err = fx.svc.Update(context.Background(), o.ID.String(), UpdateOrderRequest{ShippingAddress: &addr})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)

	bogus := Status("teleported")
	_, err := fx.svc.Update(context.Background(), o.ID.String(), UpdateOrderRequest{Status: &bogus})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

// ── visibility ────────────────────────────────────────────────────────────────

func TestTrackStatus_OwnerOnly(t *testing.T) {
	fx := newFixture(t, 5)
	o := fx.place(t, 1)

	status, err := fx.svc.TrackStatus(context.Background(), o.ID.String(), fx.accountID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)

	_, err = fx.svc.TrackStatus(context.Background(), o.ID.String(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestList_UserSeesOwnNonCancelledOnly(t *testing.T) {
	fx := newFixture(t, 10)
	kept := fx.place(t, 1)
	dropped := fx.place(t, 1)
	_, err := fx.svc.Cancel(context.Background(), dropped.ID.String())
	require.NoError(t, err)

	orders, err := fx.svc.List(context.Background(), account.RoleUser, fx.accountID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, kept.ID, orders[0].ID)

	// A different user sees nothing.
	orders, err = fx.svc.List(context.Background(), account.RoleUser, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestList_AdminSeesLiveOrdersIncludingOtherAccounts(t *testing.T) {
	fx := newFixture(t, 10)
	fx.place(t, 1)
	cancelled := fx.place(t, 1)
	_, err := fx.svc.Cancel(context.Background(), cancelled.ID.String())
	require.NoError(t, err)

	orders, err := fx.svc.List(context.Background(), account.RoleAdmin, uuid.New())
	require.NoError(t, err)
	assert.Len(t, orders, 1, "cancelled orders are excluded from the admin view")
}
