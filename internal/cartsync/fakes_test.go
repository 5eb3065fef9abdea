package cartsync

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/localstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCarts is an in-memory remote cart store that records every call.
type fakeCarts struct {
	mu     sync.Mutex
	lines  map[string][]domain.CartItem
	calls  []string
	err    error
	getErr error
	// rejects lists products whose SetItem the store refuses.
	rejects map[uuid.UUID]bool
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{lines: make(map[string][]domain.CartItem), rejects: make(map[uuid.UUID]bool)}
}

func (f *fakeCarts) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return domain.Cart{}, f.getErr
	}
	return domain.Cart{OwnerID: ownerID, Items: slices.Clone(f.lines[ownerID])}, nil
}

func (f *fakeCarts) SetItem(_ context.Context, ownerID string, item domain.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "set")
	if f.err != nil {
		return f.err
	}
	if f.rejects[item.ProductID] {
		return fmt.Errorf("%w: quantity check", domain.ErrRejected)
	}
	lines := f.lines[ownerID]
	idx := slices.IndexFunc(lines, func(l domain.CartItem) bool { return l.ProductID == item.ProductID })
	if idx >= 0 {
		lines[idx].Quantity = item.Quantity
	} else {
		f.lines[ownerID] = append(lines, item)
	}
	return nil
}

func (f *fakeCarts) DeleteItem(_ context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	if f.err != nil {
		return false, f.err
	}
	before := len(f.lines[ownerID])
	f.lines[ownerID] = slices.DeleteFunc(f.lines[ownerID], func(l domain.CartItem) bool { return l.ProductID == productID })
	return len(f.lines[ownerID]) < before, nil
}

func (f *fakeCarts) Clear(_ context.Context, ownerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "clear")
	if f.err != nil {
		return 0, f.err
	}
	n := len(f.lines[ownerID])
	delete(f.lines, ownerID)
	return int64(n), nil
}

func (f *fakeCarts) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeCarts) reject(productID uuid.UUID) {
	f.mu.Lock()
	f.rejects[productID] = true
	f.mu.Unlock()
}

func (f *fakeCarts) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCarts) remote(ownerID string) []domain.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.lines[ownerID])
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]domain.Order
	calls     int
	insertErr error
	linesErr  error
	deleteErr error
	listErr   error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[uuid.UUID]domain.Order)}
}

func (f *fakeOrders) InsertOrder(_ context.Context, order domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.insertErr != nil {
		return f.insertErr
	}
	order.Lines = nil
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrders) InsertOrderLines(_ context.Context, orderID uuid.UUID, lines []domain.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.linesErr != nil {
		return f.linesErr
	}
	o := f.orders[orderID]
	o.Lines = slices.Clone(lines)
	f.orders[orderID] = o
	return nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, ok := f.orders[orderID]
	delete(f.orders, orderID)
	return ok, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListOrders(_ context.Context, ownerID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Order
	for _, o := range f.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b domain.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	o, ok := f.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	f.orders[orderID] = o
	return nil
}

func (f *fakeOrders) stored() []domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out
}

type fakePrincipal struct {
	mu sync.Mutex
	p  *domain.Principal
}

func (f *fakePrincipal) Principal() *domain.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.p == nil {
		return nil
	}
	p := *f.p
	return &p
}

func (f *fakePrincipal) set(p *domain.Principal) {
	f.mu.Lock()
	f.p = p
	f.mu.Unlock()
}

type fixture struct {
	sync      *Synchronizer
	carts     *fakeCarts
	orders    *fakeOrders
	principal *fakePrincipal
	local     *localstore.Memory
}

func newFixture(t *testing.T, p *domain.Principal) *fixture {
	t.Helper()

	f := &fixture{
		carts:     newFakeCarts(),
		orders:    newFakeOrders(),
		principal: &fakePrincipal{p: p},
		local:     localstore.NewMemory(),
	}

	s, err := New(t.Context(), f.deps())
	require.NoError(t, err)
	f.sync = s

	return f
}

func (f *fixture) deps() Deps {
	return Deps{
		Carts:      f.carts,
		Orders:     f.orders,
		Principals: f.principal,
		Local:      f.local,
	}
}

func alice() *domain.Principal {
	p := domain.NewPrincipal("user-alice", "alice@example.com", "", "")
	return &p
}

func ghs(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), domain.GHS)
}

func addReq(productID uuid.UUID, price string, qty int) AddItemRequest {
	return AddItemRequest{
		ProductID: productID,
		Name:      "product " + productID.String()[:8],
		Price:     ghs(price),
		Image:     domain.PlaceholderImage,
		Quantity:  qty,
	}
}
