package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpsertProduct(ctx context.Context, product domain.Product) error
	UpdatePrice(ctx context.Context, id uuid.UUID, price domain.Money) error
}
