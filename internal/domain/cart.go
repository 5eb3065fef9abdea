package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const PlaceholderImage = "/placeholder.svg"

// MaxQuantity is the largest quantity a cart line may hold. The remote store
// keeps quantities as 32-bit integers.
const MaxQuantity = math.MaxInt32

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// CartItem is one product line in a cart. ID is generated locally and is
// distinct from ProductID; a cart holds at most one item per ProductID.
type CartItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Name      string
	Price     Money
	Image     string
	Quantity  int

	CreatedAt time.Time
}

func (i CartItem) LineTotal() Money {
	return i.Price.Mul(i.Quantity)
}

// CheckQuantity returns ErrInvalidQuantity unless 0 < qty <= MaxQuantity.
func CheckQuantity(qty int) error {
	if qty <= 0 || qty > MaxQuantity {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	return nil
}

// Subtotal sums the line totals of items. An empty cart is zero GHS.
func Subtotal(items []CartItem) (Money, error) {
	total := ZeroMoney(GHS)
	if len(items) > 0 {
		total.Currency = items[0].Price.Currency
	}
	for _, item := range items {
		var err error
		if total, err = total.Add(item.LineTotal()); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
