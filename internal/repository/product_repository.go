package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsync/internal/db"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
	"golang.org/x/text/currency"
)

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{q: db.New(pool)}
}

func (r *productRepository) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	return mapProductToDomain(row)
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		product, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r *productRepository) UpsertProduct(ctx context.Context, product domain.Product) error {
	if product.ID == uuid.Nil {
		return fmt.Errorf("product ID is empty")
	}

	images := product.Images
	if images == nil {
		images = []string{}
	}

	err := r.q.UpsertProduct(ctx, db.UpsertProductParams{
		ID:            product.ID,
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Images:        images,
		Stock:         int32(product.Stock),
	})
	if err != nil {
		return fmt.Errorf("q.UpsertProduct: %w", err)
	}

	return nil
}

func (r *productRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price domain.Money) error {
	rowsAffected, err := r.q.UpdateProductPrice(ctx, db.UpdateProductPriceParams{
		ID:            id,
		PriceAmount:   price.Amount,
		PriceCurrency: price.Currency.String(),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateProductPrice: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product[%s]: %w", id, domain.ErrNotFound)
	}

	return nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:        row.ID,
		Name:      row.Name,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Images:    row.Images,
		Stock:     int(row.Stock),
		UpdatedAt: row.UpdatedAt,
	}, nil
}
