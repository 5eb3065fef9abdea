package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
)

type OrderRepository interface {
	// InsertOrder writes the order header only.
	InsertOrder(ctx context.Context, order domain.Order) error
	InsertOrderLines(ctx context.Context, orderID uuid.UUID, lines []domain.OrderLine) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	// ListOrders returns the owner's orders newest first.
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
}
