package cartsync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/localstore"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type storedCart struct {
	Items []storedItem `json:"items"`
}

type storedItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *Synchronizer) restore(ctx context.Context) ([]domain.CartItem, error) {
	var stored storedCart
	found, err := s.local.Load(ctx, localstore.CartKey, &stored)
	if err != nil {
		return nil, fmt.Errorf("local.Load: %w", err)
	}
	if !found {
		return nil, nil
	}

	items := make([]domain.CartItem, 0, len(stored.Items))
	for _, si := range stored.Items {
		item, err := si.toDomain()
		if err != nil {
			s.log.Warn().Err(err).Str("product_id", si.ProductID.String()).Msg("skipping stored cart item")
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// persistLocked writes the cart to the local store. Failures are logged
// only, the in-memory cart stays authoritative.
func (s *Synchronizer) persistLocked(ctx context.Context) {
	stored := storedCart{Items: make([]storedItem, 0, len(s.items))}
	for _, item := range s.items {
		stored.Items = append(stored.Items, storedItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price.Amount,
			Currency:  item.Price.Currency.String(),
			Image:     item.Image,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt,
		})
	}

	if err := s.local.Save(ctx, localstore.CartKey, stored); err != nil {
		s.log.Error().Err(err).Msg("persist cart failed")
	}
}

func (si storedItem) toDomain() (domain.CartItem, error) {
	if si.ProductID == uuid.Nil {
		return domain.CartItem{}, ErrInvalidItem
	}
	if si.Quantity <= 0 {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] must be positive", si.Quantity)
	}

	unit, err := currency.ParseISO(si.Currency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency.ParseISO: %w", err)
	}

	return domain.CartItem{
		ID:        si.ID,
		ProductID: si.ProductID,
		Name:      si.Name,
		Price:     domain.NewMoney(si.Price, unit),
		Image:     si.Image,
		Quantity:  si.Quantity,
		CreatedAt: si.CreatedAt,
	}, nil
}
