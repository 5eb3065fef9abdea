package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestMoneyAdd(t *testing.T) {
	ghs := func(s string) domain.Money {
		return domain.NewMoney(decimal.RequireFromString(s), domain.GHS)
	}

	tests := []struct {
		name      string
		a, b      domain.Money
		want      string
		wantError string
	}{
		{
			name: "same currency",
			a:    ghs("10.50"),
			b:    ghs("1.25"),
			want: "11.75 GHS",
		},
		{
			name: "zero value adopts other currency",
			a:    domain.Money{},
			b:    ghs("3"),
			want: "3.00 GHS",
		},
		{
			name:      "mismatch",
			a:         ghs("1"),
			b:         domain.NewMoney(decimal.NewFromInt(1), currency.USD),
			wantError: "currency mismatch: GHS vs USD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCartItemLineTotal(t *testing.T) {
	item := domain.CartItem{
		Price:    domain.NewMoney(decimal.RequireFromString("12.50"), domain.GHS),
		Quantity: 3,
	}
	assert.Equal(t, "37.50 GHS", item.LineTotal().String())
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in   string
		want domain.OrderStatus
	}{
		{in: "pending", want: domain.OrderStatusPending},
		{in: " Shipped ", want: domain.OrderStatusShipped},
		{in: "completed", want: domain.OrderStatusDelivered},
	}
	for _, tt := range tests {
		got, err := domain.ParseOrderStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := domain.ParseOrderStatus("lost")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, domain.OrderStatusPending.CanTransition(domain.OrderStatusProcessing))
	assert.True(t, domain.OrderStatusProcessing.CanTransition(domain.OrderStatusCancelled))
	assert.True(t, domain.OrderStatusShipped.CanTransition(domain.OrderStatusDelivered))

	assert.False(t, domain.OrderStatusPending.CanTransition(domain.OrderStatusShipped))
	assert.False(t, domain.OrderStatusDelivered.CanTransition(domain.OrderStatusCancelled))
	assert.False(t, domain.OrderStatusCancelled.CanTransition(domain.OrderStatusPending))
}

func TestNewOrderSnapshotsItems(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	principal := domain.NewPrincipal("user-1", "esi@example.com", "", domain.Role("bogus"))

	assert.Equal(t, "esi", principal.Name)
	assert.Equal(t, domain.RoleCustomer, principal.Role)

	items := []domain.CartItem{{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Name:      "Kente scarf",
		Price:     domain.NewMoney(decimal.RequireFromString("20"), domain.GHS),
		Quantity:  2,
	}}

	order := domain.NewOrder(principal, domain.OrderDraft{PaymentMethod: "card"}, items, now)

	items[0].Quantity = 9

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "40.00 GHS", order.Lines[0].Total.String())
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, domain.DefaultCountry, order.ShippingTo.Country)
	assert.Equal(t, "user-1", order.OwnerID)
	assert.Regexp(t, `^ORD-20240115-[0-9A-F]{6}$`, order.Number)
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("signup: %w", &domain.ValidationError{
		Fields: map[string]string{"password": "too short", "email": "is required"},
	})

	assert.True(t, domain.IsValidation(err))
	assert.False(t, domain.IsValidation(errors.New("boom")))
	assert.EqualError(t, err, "signup: validation failed: email, password")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("email"))
	assert.False(t, verr.HasField("name"))
}

func TestSyncResult(t *testing.T) {
	assert.True(t, domain.SyncResult{Status: domain.SyncFailed}.Offline())
	assert.False(t, domain.SyncResult{Status: domain.SyncSynced}.Offline())
	assert.Equal(t, "local_only", domain.SyncLocalOnly.String())
}

func TestCheckQuantity(t *testing.T) {
	require.NoError(t, domain.CheckQuantity(1))
	require.NoError(t, domain.CheckQuantity(domain.MaxQuantity))

	for _, qty := range []int{0, -3, domain.MaxQuantity + 1, 1<<32 + 1} {
		require.ErrorIs(t, domain.CheckQuantity(qty), domain.ErrInvalidQuantity, qty)
	}
}

func TestSubtotal(t *testing.T) {
	total, err := domain.Subtotal(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.00 GHS", total.String())

	items := []domain.CartItem{
		{Price: domain.NewMoney(decimal.RequireFromString("10.50"), domain.GHS), Quantity: 2},
		{Price: domain.NewMoney(decimal.RequireFromString("1.25"), domain.GHS), Quantity: 1},
	}
	total, err = domain.Subtotal(items)
	require.NoError(t, err)
	assert.Equal(t, "22.25 GHS", total.String())

	items = append(items, domain.CartItem{Price: domain.NewMoney(decimal.NewFromInt(1), currency.USD), Quantity: 1})
	_, err = domain.Subtotal(items)
	require.EqualError(t, err, "currency mismatch: GHS vs USD")
}
