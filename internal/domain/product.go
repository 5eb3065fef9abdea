package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID     uuid.UUID
	Name   string
	Price  Money
	Images []string
	Stock  int

	UpdatedAt time.Time
}

// CartImage is the image shown for the product in a cart line.
func (p Product) CartImage() string {
	if len(p.Images) == 0 || p.Images[0] == "" {
		return PlaceholderImage
	}
	return p.Images[0]
}
