package cartsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/metrics"
	"github.com/nikolayk812/cartsync/internal/port"
)

type opKind int

const (
	opSetItem opKind = iota
	opDeleteItem
	opClearCart
)

func (k opKind) String() string {
	switch k {
	case opSetItem:
		return "set_item"
	case opDeleteItem:
		return "delete_item"
	case opClearCart:
		return "clear_cart"
	default:
		return "unknown"
	}
}

// remoteOp is a cart write not yet confirmed by the remote store. SetItem
// carries the absolute quantity so replaying it is harmless.
type remoteOp struct {
	seq       uint64
	kind      opKind
	ownerID   string
	item      domain.CartItem
	productID uuid.UUID
	attempts  int
}

// Outbox queues remote cart writes and applies them strictly in the order
// they were enqueued. Only one Flush runs at a time. A write that fails with
// a retryable error blocks everything behind it; a write the store rejected
// is dropped.
type Outbox struct {
	carts   port.CartRepository
	metrics *metrics.Metrics

	mu    sync.Mutex
	queue []remoteOp
	seq   uint64

	flushMu sync.Mutex
}

func NewOutbox(carts port.CartRepository, m *metrics.Metrics) *Outbox {
	return &Outbox{carts: carts, metrics: m}
}

func (o *Outbox) enqueue(op remoteOp) {
	o.mu.Lock()
	o.seq++
	op.seq = o.seq
	o.queue = append(o.queue, op)
	o.mu.Unlock()

	o.metrics.OutboxAdd(1)
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// RetainOwner drops every queued write that does not belong to ownerID. An
// empty ownerID drops everything. It returns the number of dropped writes.
func (o *Outbox) RetainOwner(ownerID string) int {
	o.mu.Lock()
	kept := o.queue[:0]
	for _, op := range o.queue {
		if ownerID != "" && op.ownerID == ownerID {
			kept = append(kept, op)
		}
	}
	dropped := len(o.queue) - len(kept)
	o.queue = kept
	o.mu.Unlock()

	o.metrics.OutboxAdd(-dropped)
	return dropped
}

// Flush applies queued writes until the queue is empty or a retryable write
// fails. Rejected writes are dropped and reported in the returned error.
func (o *Outbox) Flush(ctx context.Context) error {
	o.flushMu.Lock()
	defer o.flushMu.Unlock()
	return o.flushLocked(ctx)
}

func (o *Outbox) flushLocked(ctx context.Context) error {
	var rejected []error

	for {
		o.mu.Lock()
		if len(o.queue) == 0 {
			o.mu.Unlock()
			return errors.Join(rejected...)
		}
		op := o.queue[0]
		o.mu.Unlock()

		err := o.apply(ctx, op)
		if err != nil && !errors.Is(err, domain.ErrRejected) {
			o.mu.Lock()
			if len(o.queue) > 0 && o.queue[0].seq == op.seq {
				o.queue[0].attempts++
			}
			o.mu.Unlock()
			return errors.Join(append(rejected, fmt.Errorf("%s[%d]: %w", op.kind, op.seq, err))...)
		}
		if err != nil {
			rejected = append(rejected, fmt.Errorf("%s[%d] dropped: %w", op.kind, op.seq, err))
		}

		o.mu.Lock()
		// the head may have been dropped by RetainOwner while we were applying it
		removed := len(o.queue) > 0 && o.queue[0].seq == op.seq
		if removed {
			o.queue = o.queue[1:]
		}
		o.mu.Unlock()

		if removed {
			o.metrics.OutboxAdd(-1)
		}
	}
}

func (o *Outbox) apply(ctx context.Context, op remoteOp) error {
	switch op.kind {
	case opSetItem:
		if err := o.carts.SetItem(ctx, op.ownerID, op.item); err != nil {
			return fmt.Errorf("carts.SetItem: %w", err)
		}
	case opDeleteItem:
		if _, err := o.carts.DeleteItem(ctx, op.ownerID, op.productID); err != nil {
			return fmt.Errorf("carts.DeleteItem: %w", err)
		}
	case opClearCart:
		if _, err := o.carts.Clear(ctx, op.ownerID); err != nil {
			return fmt.Errorf("carts.Clear: %w", err)
		}
	default:
		return fmt.Errorf("unknown op kind %d", op.kind)
	}
	return nil
}
