// Package cartsync keeps a local-first shopping cart and order history and
// mirrors cart changes to the remote store when a principal is signed in.
//
// Local state is always applied first and is never rolled back because of a
// remote failure. Remote writes go through an Outbox, so they reach the store
// in the order the mutations were made and can be retried later.
package cartsync

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/metrics"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrInvalidItem = errors.New("product id is empty")

type Deps struct {
	Carts      port.CartRepository
	Orders     port.OrderRepository
	Principals port.PrincipalSource
	Local      port.LocalStore
}

type Option func(*Synchronizer)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

type AddItemRequest struct {
	ProductID uuid.UUID
	Name      string
	Price     domain.Money
	Image     string
	// Quantity defaults to 1 when not positive and must not exceed
	// domain.MaxQuantity.
	Quantity int
}

type Synchronizer struct {
	carts      port.CartRepository
	orderRepo  port.OrderRepository
	principals port.PrincipalSource
	local      port.LocalStore
	outbox     *Outbox

	log     zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.Mutex
	items  []domain.CartItem
	orders []domain.Order

	pending atomic.Int64
}

// New builds a synchronizer and restores the cart persisted in deps.Local.
func New(ctx context.Context, deps Deps, opts ...Option) (*Synchronizer, error) {
	s := &Synchronizer{
		carts:      deps.Carts,
		orderRepo:  deps.Orders,
		principals: deps.Principals,
		local:      deps.Local,
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.outbox = NewOutbox(deps.Carts, s.metrics)

	items, err := s.restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	s.items = items

	return s, nil
}

func (s *Synchronizer) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Synchronizer) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// Pending reports whether a remote call is in flight.
func (s *Synchronizer) Pending() bool {
	return s.pending.Load() > 0
}

// PendingWrites is the number of remote writes not yet confirmed.
func (s *Synchronizer) PendingWrites() int {
	return s.outbox.Len()
}

func (s *Synchronizer) AddItem(ctx context.Context, req AddItemRequest) domain.SyncResult {
	if req.ProductID == uuid.Nil {
		return s.invalid("add_item", ErrInvalidItem)
	}
	qty := req.Quantity
	if qty <= 0 {
		qty = 1
	}
	if err := domain.CheckQuantity(qty); err != nil {
		return s.invalid("add_item", err)
	}

	principal := s.principals.Principal()

	s.mu.Lock()
	idx := s.indexLocked(req.ProductID)
	if idx >= 0 {
		if s.items[idx].Quantity > domain.MaxQuantity-qty {
			current := s.items[idx].Quantity
			s.mu.Unlock()
			return s.invalid("add_item", fmt.Errorf("product[%s] has %d: %w", req.ProductID, current, domain.CheckQuantity(current+qty)))
		}
		s.items[idx].Quantity += qty
	} else {
		s.items = append(s.items, domain.CartItem{
			ID:        uuid.New(),
			ProductID: req.ProductID,
			Name:      req.Name,
			Price:     req.Price,
			Image:     req.Image,
			Quantity:  qty,
			CreatedAt: s.now(),
		})
		idx = len(s.items) - 1
	}
	line := s.items[idx]
	s.persistLocked(ctx)
	if principal != nil {
		s.outbox.enqueue(remoteOp{kind: opSetItem, ownerID: principal.ID, item: line})
	}
	s.mu.Unlock()

	return s.mirror(ctx, principal, "add_item")
}

func (s *Synchronizer) RemoveItem(ctx context.Context, productID uuid.UUID) domain.SyncResult {
	principal := s.principals.Principal()

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(i domain.CartItem) bool {
		return i.ProductID == productID
	})
	s.persistLocked(ctx)
	if principal != nil {
		s.outbox.enqueue(remoteOp{kind: opDeleteItem, ownerID: principal.ID, productID: productID})
	}
	s.mu.Unlock()

	return s.mirror(ctx, principal, "remove_item")
}

// UpdateQuantity sets the quantity of a line already in the cart. A quantity
// of zero or less removes the line. An unknown line is reported as
// domain.SyncInvalid wrapping domain.ErrNotFound.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) domain.SyncResult {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	if err := domain.CheckQuantity(quantity); err != nil {
		return s.invalid("update_quantity", err)
	}

	principal := s.principals.Principal()

	s.mu.Lock()
	idx := s.indexLocked(productID)
	if idx < 0 {
		s.mu.Unlock()
		return s.invalid("update_quantity", fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound))
	}
	s.items[idx].Quantity = quantity
	line := s.items[idx]
	s.persistLocked(ctx)
	if principal != nil {
		s.outbox.enqueue(remoteOp{kind: opSetItem, ownerID: principal.ID, item: line})
	}
	s.mu.Unlock()

	return s.mirror(ctx, principal, "update_quantity")
}

func (s *Synchronizer) ClearCart(ctx context.Context) domain.SyncResult {
	principal := s.principals.Principal()

	s.mu.Lock()
	s.items = nil
	s.persistLocked(ctx)
	if principal != nil {
		// a clear supersedes whatever is still queued for this owner
		s.outbox.RetainOwner("")
		s.outbox.enqueue(remoteOp{kind: opClearCart, ownerID: principal.ID})
	}
	s.mu.Unlock()

	return s.mirror(ctx, principal, "clear_cart")
}

// Flush retries remote writes left behind by earlier failures.
func (s *Synchronizer) Flush(ctx context.Context) domain.SyncResult {
	principal := s.principals.Principal()
	if principal == nil {
		return domain.SyncResult{Status: domain.SyncLocalOnly}
	}
	if s.outbox.Len() == 0 {
		return domain.SyncResult{Status: domain.SyncSynced}
	}
	return s.mirror(ctx, principal, "flush")
}

// LoadCart replaces the local cart with the remote one. Guests get an empty
// cart, and so does a principal whose remote cart cannot be fetched. Once the
// remote cart has replaced the local one, writes still queued are dropped:
// they describe a cart that no longer exists locally.
func (s *Synchronizer) LoadCart(ctx context.Context) domain.SyncResult {
	principal := s.principals.Principal()
	if principal == nil {
		s.replaceItems(ctx, nil)
		s.metrics.Sync("load_cart", domain.SyncLocalOnly)
		return domain.SyncResult{Status: domain.SyncLocalOnly}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	// no flush may interleave between fetching the remote cart and
	// discarding the queue
	s.outbox.flushMu.Lock()
	defer s.outbox.flushMu.Unlock()

	if err := s.outbox.flushLocked(ctx); err != nil {
		s.log.Warn().Err(err).Str("principal_id", principal.ID).Msg("flush before load failed")
	}

	cart, err := s.carts.GetCart(ctx, principal.ID)
	if err != nil {
		s.log.Error().Err(err).Str("principal_id", principal.ID).Msg("load cart failed, starting empty")
		s.replaceItems(ctx, nil)
		s.metrics.Sync("load_cart", domain.SyncFailed)
		return domain.SyncResult{Status: domain.SyncFailed, Err: remoteErr("carts.GetCart", err)}
	}

	s.mu.Lock()
	s.items = slices.Clone(cart.Items)
	s.persistLocked(ctx)
	dropped := s.outbox.RetainOwner("")
	s.mu.Unlock()

	if dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Str("principal_id", principal.ID).
			Msg("discarded unsynced cart writes superseded by remote cart")
	}
	s.metrics.Sync("load_cart", domain.SyncSynced)
	return domain.SyncResult{Status: domain.SyncSynced}
}

// LoadOrders replaces the local order history, newest first.
func (s *Synchronizer) LoadOrders(ctx context.Context) domain.SyncResult {
	principal := s.principals.Principal()
	if principal == nil {
		s.setOrders(nil)
		return domain.SyncResult{Status: domain.SyncLocalOnly}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	orders, err := s.orderRepo.ListOrders(ctx, principal.ID)
	if err != nil {
		s.log.Error().Err(err).Str("principal_id", principal.ID).Msg("load orders failed")
		s.setOrders(nil)
		s.metrics.Sync("load_orders", domain.SyncFailed)
		return domain.SyncResult{Status: domain.SyncFailed, Err: remoteErr("orders.ListOrders", err)}
	}

	s.setOrders(orders)
	s.metrics.Sync("load_orders", domain.SyncSynced)
	return domain.SyncResult{Status: domain.SyncSynced}
}

// CreateOrder writes an order for items, normally a snapshot taken with Items
// before the order was priced. It writes the header and then its lines. When
// the lines cannot be written the header is deleted again and
// domain.ErrPartialWrite is returned. The cart is cleared only after both
// writes succeeded.
func (s *Synchronizer) CreateOrder(ctx context.Context, draft domain.OrderDraft, items []domain.CartItem) (domain.Order, error) {
	principal := s.principals.Principal()
	if principal == nil {
		s.metrics.OrderFailed("not_authenticated")
		return domain.Order{}, domain.ErrNotAuthenticated
	}

	if len(items) == 0 {
		s.metrics.OrderFailed("empty_cart")
		return domain.Order{}, domain.ErrEmptyCart
	}

	order := domain.NewOrder(*principal, draft, items, s.now())
	log := s.log.With().Str("principal_id", principal.ID).Str("order_id", order.ID.String()).Logger()

	s.pending.Add(1)
	defer s.pending.Add(-1)

	if err := s.orderRepo.InsertOrder(ctx, order); err != nil {
		log.Error().Err(err).Msg("insert order failed")
		s.metrics.OrderFailed("remote")
		return domain.Order{}, remoteErr("orders.InsertOrder", err)
	}

	if err := s.orderRepo.InsertOrderLines(ctx, order.ID, order.Lines); err != nil {
		log.Error().Err(err).Msg("insert order lines failed, deleting header")
		s.metrics.OrderFailed("partial_write")

		linesErr := fmt.Errorf("%w: orders.InsertOrderLines: %w", domain.ErrPartialWrite, err)
		if _, delErr := s.orderRepo.DeleteOrder(ctx, order.ID); delErr != nil {
			log.Error().Err(delErr).Msg("order header left without lines")
			return domain.Order{}, errors.Join(linesErr, fmt.Errorf("orders.DeleteOrder: %w", delErr))
		}
		return domain.Order{}, linesErr
	}

	if res := s.ClearCart(ctx); res.Err != nil {
		log.Warn().Err(res.Err).Msg("cart not cleared remotely after order")
	}

	s.mu.Lock()
	s.orders = append([]domain.Order{order}, s.orders...)
	s.mu.Unlock()

	s.metrics.OrderCreated()
	log.Info().Str("order_number", order.Number).Int("lines", len(order.Lines)).Msg("order created")

	return order, nil
}

// OnPrincipalChange reloads remote state after sign in and drops everything
// belonging to the previous principal after sign out.
func (s *Synchronizer) OnPrincipalChange(ctx context.Context, p *domain.Principal) {
	if p == nil {
		if n := s.outbox.RetainOwner(""); n > 0 {
			s.log.Warn().Int("dropped", n).Msg("discarded unsynced cart writes on sign out")
		}
		s.replaceItems(ctx, nil)
		s.setOrders(nil)
		return
	}

	s.outbox.RetainOwner(p.ID)
	s.LoadCart(ctx)
	s.LoadOrders(ctx)
}

// TotalPrice sums price*quantity over the cart. Lines are assumed to share
// one currency.
func (s *Synchronizer) TotalPrice() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := domain.ZeroMoney(domain.GHS)
	for i, item := range s.items {
		if i == 0 {
			total.Currency = item.Price.Currency
		}
		total.Amount = total.Amount.Add(item.Price.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Synchronizer) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Synchronizer) mirror(ctx context.Context, principal *domain.Principal, op string) domain.SyncResult {
	if principal == nil {
		s.metrics.Sync(op, domain.SyncLocalOnly)
		return domain.SyncResult{Status: domain.SyncLocalOnly}
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	if err := s.outbox.Flush(ctx); err != nil {
		queued := s.outbox.Len()
		s.log.Warn().Err(err).Str("op", op).Str("principal_id", principal.ID).
			Int("queued", queued).Msg("remote cart write failed, keeping local state")
		s.metrics.Sync(op, domain.SyncFailed)
		if queued == 0 {
			// only rejected writes, nothing to retry
			return domain.SyncResult{Status: domain.SyncFailed, Err: fmt.Errorf("outbox.Flush: %w", err)}
		}
		return domain.SyncResult{Status: domain.SyncFailed, Err: remoteErr("outbox.Flush", err)}
	}

	s.metrics.Sync(op, domain.SyncSynced)
	return domain.SyncResult{Status: domain.SyncSynced}
}

func (s *Synchronizer) invalid(op string, err error) domain.SyncResult {
	s.metrics.Sync(op, domain.SyncInvalid)
	return domain.SyncResult{Status: domain.SyncInvalid, Err: err}
}

func (s *Synchronizer) indexLocked(productID uuid.UUID) int {
	return slices.IndexFunc(s.items, func(i domain.CartItem) bool {
		return i.ProductID == productID
	})
}

func (s *Synchronizer) replaceItems(ctx context.Context, items []domain.CartItem) {
	s.mu.Lock()
	s.items = slices.Clone(items)
	s.persistLocked(ctx)
	s.mu.Unlock()
}

func (s *Synchronizer) setOrders(orders []domain.Order) {
	s.mu.Lock()
	s.orders = slices.Clone(orders)
	s.mu.Unlock()
}

func remoteErr(op string, err error) error {
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrRemoteUnavailable, op, err)
}
