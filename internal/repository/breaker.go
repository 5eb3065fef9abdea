package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/logging"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[any] {
	log := logging.Component("breaker")

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		// lookups that find nothing are answers, not outages
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrRejected)
		},
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	if err != nil {
		return zero, err
	}

	return result.(T), nil
}

type breakerCart struct {
	inner port.CartRepository
	cb    *gobreaker.CircuitBreaker[any]
}

// NewCartWithBreaker fails fast with domain.ErrRemoteUnavailable while the
// cart store keeps failing.
func NewCartWithBreaker(inner port.CartRepository, cfg BreakerConfig) port.CartRepository {
	return &breakerCart{inner: inner, cb: newBreaker(cfg)}
}

func (b *breakerCart) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	return execute(b.cb, func() (domain.Cart, error) {
		return b.inner.GetCart(ctx, ownerID)
	})
}

func (b *breakerCart) SetItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	_, err := execute(b.cb, func() (struct{}, error) {
		return struct{}{}, b.inner.SetItem(ctx, ownerID, item)
	})
	return err
}

func (b *breakerCart) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	return execute(b.cb, func() (bool, error) {
		return b.inner.DeleteItem(ctx, ownerID, productID)
	})
}

func (b *breakerCart) Clear(ctx context.Context, ownerID string) (int64, error) {
	return execute(b.cb, func() (int64, error) {
		return b.inner.Clear(ctx, ownerID)
	})
}

type breakerOrder struct {
	inner port.OrderRepository
	cb    *gobreaker.CircuitBreaker[any]
}

func NewOrderWithBreaker(inner port.OrderRepository, cfg BreakerConfig) port.OrderRepository {
	return &breakerOrder{inner: inner, cb: newBreaker(cfg)}
}

func (b *breakerOrder) InsertOrder(ctx context.Context, order domain.Order) error {
	_, err := execute(b.cb, func() (struct{}, error) {
		return struct{}{}, b.inner.InsertOrder(ctx, order)
	})
	return err
}

func (b *breakerOrder) InsertOrderLines(ctx context.Context, orderID uuid.UUID, lines []domain.OrderLine) error {
	_, err := execute(b.cb, func() (struct{}, error) {
		return struct{}{}, b.inner.InsertOrderLines(ctx, orderID, lines)
	})
	return err
}

func (b *breakerOrder) DeleteOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return execute(b.cb, func() (bool, error) {
		return b.inner.DeleteOrder(ctx, orderID)
	})
}

func (b *breakerOrder) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return execute(b.cb, func() (domain.Order, error) {
		return b.inner.GetOrder(ctx, orderID)
	})
}

func (b *breakerOrder) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return execute(b.cb, func() ([]domain.Order, error) {
		return b.inner.ListOrders(ctx, ownerID)
	})
}

func (b *breakerOrder) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	_, err := execute(b.cb, func() (struct{}, error) {
		return struct{}{}, b.inner.UpdateStatus(ctx, orderID, status)
	})
	return err
}
