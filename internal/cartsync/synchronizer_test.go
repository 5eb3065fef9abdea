package cartsync

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/localstore"
	"github.com/nikolayk812/cartsync/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var errBoom = errors.New("connection reset")

func TestAddItem(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name       string
		principal  *domain.Principal
		req        AddItemRequest
		wantStatus domain.SyncStatus
		wantQty    int
		wantError  error
		wantRemote int
	}{
		{
			name:       "guest: local only",
			req:        addReq(productID, "10.00", 2),
			wantStatus: domain.SyncLocalOnly,
			wantQty:    2,
		},
		{
			name:       "principal: mirrored",
			principal:  alice(),
			req:        addReq(productID, "10.00", 2),
			wantStatus: domain.SyncSynced,
			wantQty:    2,
			wantRemote: 2,
		},
		{
			name:       "zero quantity counts as one",
			principal:  alice(),
			req:        addReq(productID, "10.00", 0),
			wantStatus: domain.SyncSynced,
			wantQty:    1,
			wantRemote: 1,
		},
		{
			name:       "negative quantity counts as one",
			req:        addReq(productID, "10.00", -4),
			wantStatus: domain.SyncLocalOnly,
			wantQty:    1,
		},
		{
			name:       "nil product id",
			principal:  alice(),
			req:        addReq(uuid.Nil, "10.00", 1),
			wantStatus: domain.SyncInvalid,
			wantError:  ErrInvalidItem,
		},
		{
			name:       "quantity above int32",
			principal:  alice(),
			req:        addReq(productID, "10.00", domain.MaxQuantity+1),
			wantStatus: domain.SyncInvalid,
			wantError:  domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.principal)

			res := f.sync.AddItem(t.Context(), tt.req)
			assert.Equal(t, tt.wantStatus, res.Status)

			if tt.wantError != nil {
				require.ErrorIs(t, res.Err, tt.wantError)
				assert.Empty(t, f.sync.Items())
				assert.Zero(t, f.carts.callCount())
				return
			}
			require.NoError(t, res.Err)

			items := f.sync.Items()
			require.Len(t, items, 1)
			assert.Equal(t, tt.req.ProductID, items[0].ProductID)
			assert.Equal(t, tt.wantQty, items[0].Quantity)
			assert.NotEqual(t, uuid.Nil, items[0].ID)
			assert.NotEqual(t, items[0].ProductID, items[0].ID)

			if tt.principal == nil {
				assert.Zero(t, f.carts.callCount())
				return
			}
			remote := f.carts.remote(tt.principal.ID)
			require.Len(t, remote, 1)
			assert.Equal(t, tt.wantRemote, remote[0].Quantity)
		})
	}
}

func TestAddItemSameProductKeepsOneLine(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	productID := uuid.New()

	f.sync.AddItem(ctx, addReq(productID, "4.50", 1))
	res := f.sync.AddItem(ctx, addReq(productID, "4.50", 2))
	require.Equal(t, domain.SyncSynced, res.Status)

	items := f.sync.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	remote := f.carts.remote(alice().ID)
	require.Len(t, remote, 1)
	assert.Equal(t, 3, remote[0].Quantity)
}

func TestAddItemRejectsQuantityOverflow(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	productID := uuid.New()

	res := f.sync.AddItem(ctx, addReq(productID, "1.00", domain.MaxQuantity-1))
	require.Equal(t, domain.SyncSynced, res.Status)
	before := f.carts.callCount()

	res = f.sync.AddItem(ctx, addReq(productID, "1.00", 2))
	assert.Equal(t, domain.SyncInvalid, res.Status)
	require.ErrorIs(t, res.Err, domain.ErrInvalidQuantity)
	assert.Equal(t, before, f.carts.callCount())

	items := f.sync.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.MaxQuantity-1, items[0].Quantity)

	res = f.sync.AddItem(ctx, addReq(productID, "1.00", 1))
	require.Equal(t, domain.SyncSynced, res.Status)
	assert.Equal(t, domain.MaxQuantity, f.sync.Items()[0].Quantity)
}

func TestRejectedWriteIsDroppedNotRetried(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	bad, good := uuid.New(), uuid.New()
	f.carts.reject(bad)

	res := f.sync.AddItem(ctx, addReq(bad, "1.00", 1))
	assert.Equal(t, domain.SyncFailed, res.Status)
	require.ErrorIs(t, res.Err, domain.ErrRejected)
	assert.NotErrorIs(t, res.Err, domain.ErrRemoteUnavailable)
	assert.Zero(t, f.sync.PendingWrites())

	// later writes are not held up behind the rejected one
	res = f.sync.AddItem(ctx, addReq(good, "1.00", 2))
	require.NoError(t, res.Err)
	assert.Equal(t, domain.SyncSynced, res.Status)

	remote := f.carts.remote(alice().ID)
	require.Len(t, remote, 1)
	assert.Equal(t, good, remote[0].ProductID)
	assert.Len(t, f.sync.Items(), 2)
}

func TestRemoteFailureKeepsLocalChange(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	productID := uuid.New()

	f.carts.setErr(errBoom)

	res := f.sync.AddItem(ctx, addReq(productID, "7.00", 2))
	assert.Equal(t, domain.SyncFailed, res.Status)
	assert.True(t, res.Offline())
	require.ErrorIs(t, res.Err, domain.ErrRemoteUnavailable)
	require.ErrorIs(t, res.Err, errBoom)

	require.Len(t, f.sync.Items(), 1)
	assert.Equal(t, 1, f.sync.PendingWrites())
	assert.False(t, f.sync.Pending())

	// the queued write goes out together with the next one, in order
	res = f.sync.UpdateQuantity(ctx, productID, 5)
	assert.Equal(t, domain.SyncFailed, res.Status)
	assert.Equal(t, 2, f.sync.PendingWrites())

	f.carts.setErr(nil)

	res = f.sync.Flush(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.SyncSynced, res.Status)
	assert.Zero(t, f.sync.PendingWrites())

	remote := f.carts.remote(alice().ID)
	require.Len(t, remote, 1)
	assert.Equal(t, 5, remote[0].Quantity)
}

func TestFlushAsGuestIsLocalOnly(t *testing.T) {
	f := newFixture(t, nil)

	res := f.sync.Flush(t.Context())
	assert.Equal(t, domain.SyncLocalOnly, res.Status)
	assert.Zero(t, f.carts.callCount())
}

func TestGuestNeverTouchesRemote(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	p1, p2 := uuid.New(), uuid.New()

	results := []domain.SyncResult{
		f.sync.AddItem(ctx, addReq(p1, "1.00", 1)),
		f.sync.AddItem(ctx, addReq(p2, "2.00", 1)),
		f.sync.UpdateQuantity(ctx, p1, 3),
		f.sync.RemoveItem(ctx, p2),
		f.sync.ClearCart(ctx),
		f.sync.LoadCart(ctx),
		f.sync.LoadOrders(ctx),
	}

	for _, res := range results {
		assert.Equal(t, domain.SyncLocalOnly, res.Status)
		assert.NoError(t, res.Err)
	}
	assert.Zero(t, f.carts.callCount())
	assert.Zero(t, f.orders.calls)
	assert.Zero(t, f.sync.PendingWrites())
}

func TestUpdateQuantity(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name      string
		productID uuid.UUID
		quantity  int
		wantItems int
		wantQty   int
		wantError error
	}{
		{
			name:      "set quantity",
			productID: productID,
			quantity:  7,
			wantItems: 1,
			wantQty:   7,
		},
		{
			name:      "zero removes the line",
			productID: productID,
			quantity:  0,
		},
		{
			name:      "negative removes the line",
			productID: productID,
			quantity:  -1,
		},
		{
			name:      "absent product is a no-op",
			productID: uuid.New(),
			quantity:  3,
			wantItems: 1,
			wantQty:   2,
			wantError: domain.ErrNotFound,
		},
		{
			name:      "quantity above int32",
			productID: productID,
			quantity:  domain.MaxQuantity + 1,
			wantItems: 1,
			wantQty:   2,
			wantError: domain.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, alice())
			ctx := t.Context()

			f.sync.AddItem(ctx, addReq(productID, "3.00", 2))
			before := f.carts.callCount()

			res := f.sync.UpdateQuantity(ctx, tt.productID, tt.quantity)
			items := f.sync.Items()
			require.Len(t, items, tt.wantItems)

			if tt.wantError != nil {
				require.ErrorIs(t, res.Err, tt.wantError)
				assert.Equal(t, domain.SyncInvalid, res.Status)
				assert.Equal(t, before, f.carts.callCount())
				assert.Equal(t, tt.wantQty, items[0].Quantity)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, domain.SyncSynced, res.Status)

			remote := f.carts.remote(alice().ID)
			require.Len(t, remote, tt.wantItems)
			if tt.wantItems > 0 {
				assert.Equal(t, tt.wantQty, items[0].Quantity)
				assert.Equal(t, tt.wantQty, remote[0].Quantity)
			}
		})
	}
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	p1, p2 := uuid.New(), uuid.New()

	f.sync.AddItem(ctx, addReq(p1, "1.00", 1))
	f.sync.AddItem(ctx, addReq(p2, "2.00", 1))

	res := f.sync.RemoveItem(ctx, p1)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.SyncSynced, res.Status)

	items := f.sync.Items()
	require.Len(t, items, 1)
	assert.Equal(t, p2, items[0].ProductID)
	require.Len(t, f.carts.remote(alice().ID), 1)

	// removing an absent product is harmless
	res = f.sync.RemoveItem(ctx, p1)
	assert.Equal(t, domain.SyncSynced, res.Status)
	assert.Len(t, f.sync.Items(), 1)
}

func TestClearCart(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()

	f.carts.setErr(errBoom)
	f.sync.AddItem(ctx, addReq(uuid.New(), "1.00", 1))
	f.sync.AddItem(ctx, addReq(uuid.New(), "2.00", 1))
	require.Equal(t, 2, f.sync.PendingWrites())
	f.carts.setErr(nil)

	res := f.sync.ClearCart(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.SyncSynced, res.Status)

	assert.Empty(t, f.sync.Items())
	assert.Zero(t, f.sync.TotalItems())
	assert.True(t, f.sync.TotalPrice().IsZero())
	assert.Empty(t, f.carts.remote(alice().ID))
	assert.Zero(t, f.sync.PendingWrites())
}

func TestTotals(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()

	total := f.sync.TotalPrice()
	assert.True(t, total.IsZero())
	assert.Equal(t, domain.GHS, total.Currency)
	assert.Zero(t, f.sync.TotalItems())

	f.sync.AddItem(ctx, addReq(uuid.New(), "10.50", 2))
	f.sync.AddItem(ctx, addReq(uuid.New(), "1.25", 3))

	total = f.sync.TotalPrice()
	assert.True(t, decimal.RequireFromString("24.75").Equal(total.Amount), total.String())
	assert.Equal(t, domain.GHS, total.Currency)
	assert.Equal(t, 5, f.sync.TotalItems())
}

func TestCartSurvivesRestart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	productID := uuid.New()

	f.sync.AddItem(ctx, addReq(productID, "9.99", 4))

	restarted, err := New(ctx, f.deps())
	require.NoError(t, err)

	want := f.sync.Items()
	got := restarted.Items()
	if diff := cmp.Diff(want, got, moneyComparers()...); diff != "" {
		t.Errorf("restored cart mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCartReplacesLocalCart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	p1, p2 := uuid.New(), uuid.New()

	f.sync.AddItem(ctx, addReq(p1, "5.00", 1))

	// remote cart of the principal who is about to sign in
	require.NoError(t, f.carts.SetItem(ctx, alice().ID, domain.CartItem{
		ID:        uuid.New(),
		ProductID: p2,
		Name:      "remote",
		Price:     ghs("2.00"),
		Image:     domain.PlaceholderImage,
		Quantity:  5,
	}))

	f.principal.set(alice())
	res := f.sync.LoadCart(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.SyncSynced, res.Status)

	items := f.sync.Items()
	require.Len(t, items, 1)
	assert.Equal(t, p2, items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestLoadCartDropsSupersededWrites(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()

	f.carts.setErr(errBoom)
	res := f.sync.AddItem(ctx, addReq(uuid.New(), "5.00", 1))
	require.Equal(t, domain.SyncFailed, res.Status)
	require.Equal(t, 1, f.sync.PendingWrites())

	// writes stay down, reads come back
	res = f.sync.LoadCart(ctx)
	require.NoError(t, res.Err)
	assert.Equal(t, domain.SyncSynced, res.Status)
	assert.Empty(t, f.sync.Items())
	assert.Zero(t, f.sync.PendingWrites())

	f.carts.setErr(nil)
	res = f.sync.Flush(ctx)
	assert.Equal(t, domain.SyncSynced, res.Status)
	assert.Empty(t, f.carts.remote(alice().ID))
}

func TestLoadCartFailureEmptiesCart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()

	f.sync.AddItem(ctx, addReq(uuid.New(), "5.00", 1))

	f.carts.getErr = errBoom
	f.principal.set(alice())

	res := f.sync.LoadCart(ctx)
	assert.Equal(t, domain.SyncFailed, res.Status)
	require.ErrorIs(t, res.Err, domain.ErrRemoteUnavailable)
	assert.Empty(t, f.sync.Items())
}

func TestLoadOrders(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	now := time.Now()

	older := domain.NewOrder(*alice(), domain.OrderDraft{}, nil, now.Add(-time.Hour))
	newer := domain.NewOrder(*alice(), domain.OrderDraft{}, nil, now)
	require.NoError(t, f.orders.InsertOrder(ctx, older))
	require.NoError(t, f.orders.InsertOrder(ctx, newer))

	res := f.sync.LoadOrders(ctx)
	require.NoError(t, res.Err)

	orders := f.sync.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	f.orders.listErr = errBoom
	res = f.sync.LoadOrders(ctx)
	assert.Equal(t, domain.SyncFailed, res.Status)
	assert.Empty(t, f.sync.Orders())
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	p1, p2 := uuid.New(), uuid.New()

	f.sync.AddItem(ctx, addReq(p1, "10.00", 2))
	f.sync.AddItem(ctx, addReq(p2, "2.50", 1))

	order, err := f.sync.CreateOrder(ctx, draft("22.50"), f.sync.Items())
	require.NoError(t, err)

	assert.Equal(t, alice().ID, order.OwnerID)
	assert.Equal(t, alice().Email, order.Email)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.DefaultCountry, order.ShippingTo.Country)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{6}$`, order.Number)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, p1, order.Lines[0].ProductID)
	assert.True(t, decimal.RequireFromString("20.00").Equal(order.Lines[0].Total.Amount))

	assert.Empty(t, f.sync.Items())
	assert.Empty(t, f.carts.remote(alice().ID))

	orders := f.sync.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	stored := f.orders.stored()
	require.Len(t, stored, 1)
	assert.Len(t, stored[0].Lines, 2)
}

func TestCreateOrderSnapshotIgnoresLaterChanges(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	productID := uuid.New()

	f.sync.AddItem(ctx, addReq(productID, "10.00", 1))
	order, err := f.sync.CreateOrder(ctx, draft("10.00"), f.sync.Items())
	require.NoError(t, err)

	// the product now costs more
	f.sync.AddItem(ctx, addReq(productID, "15.00", 1))

	got := f.sync.Orders()[0]
	require.Len(t, got.Lines, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(got.Lines[0].UnitPrice.Amount))
	if diff := cmp.Diff(order, got, moneyComparers()...); diff != "" {
		t.Errorf("order changed (-want +got):\n%s", diff)
	}
}

func TestCreateOrderWritesGivenItems(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	p1, p2 := uuid.New(), uuid.New()

	f.sync.AddItem(ctx, addReq(p1, "10.00", 1))
	priced := f.sync.Items()

	// added after the order was priced
	f.sync.AddItem(ctx, addReq(p2, "99.00", 1))

	order, err := f.sync.CreateOrder(ctx, draft("10.00"), priced)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, p1, order.Lines[0].ProductID)

	stored := f.orders.stored()
	require.Len(t, stored, 1)
	assert.Len(t, stored[0].Lines, 1)
}

func TestCreateOrderFailures(t *testing.T) {
	tests := []struct {
		name       string
		principal  *domain.Principal
		emptyCart  bool
		insertErr  error
		linesErr   error
		deleteErr  error
		wantErrors []error
		wantStored int
	}{
		{
			name:       "guest",
			wantErrors: []error{domain.ErrNotAuthenticated},
		},
		{
			name:       "empty cart",
			principal:  alice(),
			emptyCart:  true,
			wantErrors: []error{domain.ErrEmptyCart},
		},
		{
			name:       "header write fails",
			principal:  alice(),
			insertErr:  errBoom,
			wantErrors: []error{domain.ErrRemoteUnavailable, errBoom},
		},
		{
			name:       "line write fails: header removed",
			principal:  alice(),
			linesErr:   errBoom,
			wantErrors: []error{domain.ErrPartialWrite, errBoom},
		},
		{
			name:       "line write and compensation fail",
			principal:  alice(),
			linesErr:   errBoom,
			deleteErr:  domain.ErrRemoteUnavailable,
			wantErrors: []error{domain.ErrPartialWrite, errBoom, domain.ErrRemoteUnavailable},
			wantStored: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.principal)
			ctx := t.Context()

			if !tt.emptyCart {
				f.sync.AddItem(ctx, addReq(uuid.New(), "3.00", 1))
				f.sync.AddItem(ctx, addReq(uuid.New(), "4.00", 2))
			}
			f.orders.insertErr = tt.insertErr
			f.orders.linesErr = tt.linesErr
			f.orders.deleteErr = tt.deleteErr

			_, err := f.sync.CreateOrder(ctx, draft("11.00"), f.sync.Items())
			for _, want := range tt.wantErrors {
				require.ErrorIs(t, err, want)
			}

			assert.Len(t, f.orders.stored(), tt.wantStored)
			assert.Empty(t, f.sync.Orders())
			if !tt.emptyCart {
				assert.Len(t, f.sync.Items(), 2)
			}
		})
	}
}

func TestOnPrincipalChange(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	productID := uuid.New()

	require.NoError(t, f.carts.SetItem(ctx, alice().ID, domain.CartItem{
		ID:        uuid.New(),
		ProductID: productID,
		Price:     ghs("1.00"),
		Quantity:  2,
	}))

	f.principal.set(alice())
	f.sync.OnPrincipalChange(ctx, alice())

	items := f.sync.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	f.carts.setErr(errBoom)
	f.sync.AddItem(ctx, addReq(uuid.New(), "1.00", 1))
	require.Equal(t, 1, f.sync.PendingWrites())

	f.principal.set(nil)
	f.sync.OnPrincipalChange(ctx, nil)

	assert.Empty(t, f.sync.Items())
	assert.Empty(t, f.sync.Orders())
	assert.Zero(t, f.sync.PendingWrites())
}

func TestConcurrentAddsConverge(t *testing.T) {
	f := newFixture(t, alice())
	ctx := t.Context()
	productID := uuid.New()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.sync.AddItem(ctx, addReq(productID, "1.00", 1))
		}()
	}
	wg.Wait()

	items := f.sync.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)

	remote := f.carts.remote(alice().ID)
	require.Len(t, remote, 1)
	assert.Equal(t, 10, remote[0].Quantity)
	assert.False(t, f.sync.Pending())
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	f := &fixture{
		carts:     newFakeCarts(),
		orders:    newFakeOrders(),
		principal: &fakePrincipal{p: alice()},
		local:     localstore.NewMemory(),
	}

	s, err := New(t.Context(), f.deps(), WithMetrics(m))
	require.NoError(t, err)

	s.AddItem(t.Context(), addReq(uuid.New(), "1.00", 1))
	f.carts.setErr(errBoom)
	s.AddItem(t.Context(), addReq(uuid.New(), "1.00", 1))

	assert.InDelta(t, 1, testutil.ToFloat64(m.SyncResults.WithLabelValues("add_item", "synced")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SyncResults.WithLabelValues("add_item", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OutboxDepth), 0)
}

func draft(total string) domain.OrderDraft {
	return domain.OrderDraft{
		Subtotal:      ghs(total),
		Tax:           ghs("0"),
		Shipping:      ghs("0"),
		Total:         ghs(total),
		Billing:       domain.Address{FirstName: "Ama", LastName: "Mensah", Line1: "1 Ring Rd", City: "Accra"},
		ShippingTo:    domain.Address{FirstName: "Ama", LastName: "Mensah", Line1: "1 Ring Rd", City: "Accra"},
		PaymentMethod: "card",
	}
}

func moneyComparers() []cmp.Option {
	return []cmp.Option{
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
		cmp.Comparer(func(a, b currency.Unit) bool { return a == b }),
		cmpopts.EquateApproxTime(time.Second),
	}
}
