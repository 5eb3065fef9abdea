package httpapi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/cartsync/internal/cartsync"
	"github.com/nikolayk812/cartsync/internal/identity"
	"github.com/nikolayk812/cartsync/internal/metrics"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Client is the state of one browser session: who is signed in and what is
// in the cart.
type Client struct {
	ID       string
	Identity *identity.Session
	Cart     *cartsync.Synchronizer
}

// StoreFactory returns the local store for one session, keyed by prefix.
type StoreFactory func(prefix string) port.LocalStore

type RegistryDeps struct {
	Auth    port.Authenticator
	Carts   port.CartRepository
	Orders  port.OrderRepository
	Stores  StoreFactory
	Metrics *metrics.Metrics
	Log     zerolog.Logger

	// IdleTTL is how long a client may go unused before Sweep drops it.
	// Zero keeps clients forever.
	IdleTTL time.Duration
	Now     func() time.Time
}

// Registry creates clients on first use and drops them again once they have
// been idle for IdleTTL. A client restarted from the same local store picks
// up its principal and cart where it left off.
type Registry struct {
	deps  RegistryDeps
	build singleflight.Group

	mu      sync.Mutex
	clients map[string]*entry
}

type entry struct {
	client   *Client
	lastUsed time.Time
}

func NewRegistry(deps RegistryDeps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{deps: deps, clients: make(map[string]*entry)}
}

// Get returns the client of session id, building it on first use. Building
// reads the local store and runs outside the registry lock; concurrent
// requests for the same new session share one build.
func (r *Registry) Get(ctx context.Context, id string) (*Client, error) {
	if c := r.lookup(id); c != nil {
		return c, nil
	}

	v, err, _ := r.build.Do(id, func() (any, error) {
		if c := r.lookup(id); c != nil {
			return c, nil
		}

		c, err := r.newClient(ctx, id)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.clients[id] = &entry{client: c, lastUsed: r.deps.Now()}
		r.mu.Unlock()

		return c, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Client), nil
}

func (r *Registry) lookup(id string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.clients[id]
	if !ok {
		return nil
	}
	e.lastUsed = r.deps.Now()
	return e.client
}

func (r *Registry) newClient(ctx context.Context, id string) (*Client, error) {
	store := r.deps.Stores(id + ":")
	log := r.deps.Log.With().Str("session", id).Logger()

	session, err := identity.NewSession(ctx, r.deps.Auth, store, log)
	if err != nil {
		return nil, fmt.Errorf("identity.NewSession: %w", err)
	}

	cart, err := cartsync.New(ctx, cartsync.Deps{
		Carts:      r.deps.Carts,
		Orders:     r.deps.Orders,
		Principals: session,
		Local:      store,
	}, cartsync.WithLogger(log), cartsync.WithMetrics(r.deps.Metrics))
	if err != nil {
		return nil, fmt.Errorf("cartsync.New: %w", err)
	}

	session.Subscribe(cart.OnPrincipalChange)

	return &Client{ID: id, Identity: session, Cart: cart}, nil
}

// Sweep drops clients idle for longer than IdleTTL. Clients with queued
// remote writes or a remote call in flight are kept. It returns the number
// of dropped clients.
func (r *Registry) Sweep() int {
	if r.deps.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.deps.Now().Add(-r.deps.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.clients {
		if e.lastUsed.After(cutoff) || e.client.Cart.PendingWrites() > 0 || e.client.Cart.Pending() {
			continue
		}
		delete(r.clients, id)
		n++
	}
	return n
}

// Maintain retries queued writes and then drops idle clients. It is meant
// to be run by a poller.
func (r *Registry) Maintain(ctx context.Context) error {
	err := r.FlushAll(ctx)
	if n := r.Sweep(); n > 0 {
		r.deps.Log.Debug().Int("evicted", n).Int("sessions", r.Len()).Msg("idle sessions dropped")
	}
	return err
}

// FlushAll retries queued remote writes of every client.
func (r *Registry) FlushAll(ctx context.Context) error {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for _, e := range r.clients {
		clients = append(clients, e.client)
	}
	r.mu.Unlock()

	var errs []error
	for _, c := range clients {
		if c.Cart.PendingWrites() == 0 {
			continue
		}
		if res := c.Cart.Flush(ctx); res.Err != nil {
			errs = append(errs, fmt.Errorf("session[%s]: %w", c.ID, res.Err))
		}
	}

	return errors.Join(errs...)
}

// Orders is the remote order store shared by every client.
func (r *Registry) Orders() port.OrderRepository {
	return r.deps.Orders
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
