package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)
	// SetItem upserts the line keyed by (ownerID, item.ProductID) with an absolute quantity.
	SetItem(ctx context.Context, ownerID string, item domain.CartItem) error
	DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error)
	Clear(ctx context.Context, ownerID string) (int64, error)
}
