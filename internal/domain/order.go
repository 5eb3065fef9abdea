package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// OrderStatusCompleted is accepted from older rows and normalised to delivered.
	OrderStatusCompleted OrderStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const DefaultCountry = "US"

// ParseOrderStatus maps a stored status to the known vocabulary.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	case OrderStatusCompleted:
		return OrderStatusDelivered, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an administrator may move an order from one
// status to another.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Address struct {
	FirstName  string
	LastName   string
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a Address) WithDefaults() Address {
	if a.Country == "" {
		a.Country = DefaultCountry
	}
	return a
}

// OrderDraft is what checkout hands over to create an order from the cart.
type OrderDraft struct {
	Subtotal      Money
	Tax           Money
	Shipping      Money
	Total         Money
	Billing       Address
	ShippingTo    Address
	PaymentMethod string
}

// OrderLine is a snapshot of a cart item taken when the order was placed.
// It never follows later product changes.
type OrderLine struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Name      string
	UnitPrice Money
	Quantity  int
	Total     Money
}

type Order struct {
	ID            uuid.UUID
	OwnerID       string
	Number        string
	Email         string
	Lines         []OrderLine
	Subtotal      Money
	Tax           Money
	Shipping      Money
	Total         Money
	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod string
	Billing       Address
	ShippingTo    Address

	CreatedAt time.Time
}

// NewOrder snapshots the given cart items into a pending order for the principal.
func NewOrder(principal Principal, draft OrderDraft, items []CartItem, now time.Time) Order {
	id := uuid.New()

	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Total:     item.LineTotal(),
		})
	}

	return Order{
		ID:            id,
		OwnerID:       principal.ID,
		Number:        OrderNumber(id, now),
		Email:         principal.Email,
		Lines:         lines,
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Shipping:      draft.Shipping,
		Total:         draft.Total,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: draft.PaymentMethod,
		Billing:       draft.Billing.WithDefaults(),
		ShippingTo:    draft.ShippingTo.WithDefaults(),
		CreatedAt:     now,
	}
}

// OrderNumber renders the human readable number, e.g. ORD-20240115-3FA85F.
func OrderNumber(id uuid.UUID, at time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), hex[:6])
}
