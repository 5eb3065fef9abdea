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

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) error {
	if order.OwnerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	err := r.q.InsertOrder(ctx, db.InsertOrderParams{
		ID:                   order.ID,
		OwnerID:              order.OwnerID,
		OrderNumber:          order.Number,
		Email:                order.Email,
		Status:               string(order.Status),
		PaymentStatus:        string(order.PaymentStatus),
		Currency:             order.Total.Currency.String(),
		Subtotal:             order.Subtotal.Amount,
		TaxAmount:            order.Tax.Amount,
		ShippingAmount:       order.Shipping.Amount,
		Total:                order.Total.Amount,
		BillingFirstName:     order.Billing.FirstName,
		BillingLastName:      order.Billing.LastName,
		BillingAddressLine1:  order.Billing.Line1,
		BillingCity:          order.Billing.City,
		BillingState:         order.Billing.State,
		BillingPostalCode:    order.Billing.PostalCode,
		BillingCountry:       order.Billing.WithDefaults().Country,
		ShippingFirstName:    order.ShippingTo.FirstName,
		ShippingLastName:     order.ShippingTo.LastName,
		ShippingAddressLine1: order.ShippingTo.Line1,
		ShippingCity:         order.ShippingTo.City,
		ShippingState:        order.ShippingTo.State,
		ShippingPostalCode:   order.ShippingTo.PostalCode,
		ShippingCountry:      order.ShippingTo.WithDefaults().Country,
		PaymentMethod:        order.PaymentMethod,
		CreatedAt:            order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("q.InsertOrder: %w", err)
	}

	return nil
}

// InsertOrderLines writes all lines of an order in one transaction.
func (r *orderRepository) InsertOrderLines(ctx context.Context, orderID uuid.UUID, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("lines are empty")
	}
	for i, line := range lines {
		if err := domain.CheckQuantity(line.Quantity); err != nil {
			return fmt.Errorf("line[%d]: %w", i, err)
		}
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		for i, line := range lines {
			err := q.InsertOrderItem(ctx, db.InsertOrderItemParams{
				ID:          line.ID,
				OrderID:     orderID,
				ProductID:   line.ProductID,
				ProductName: line.Name,
				Quantity:    int32(line.Quantity),
				UnitPrice:   line.UnitPrice.Amount,
				TotalPrice:  line.Total.Amount,
				Position:    int32(i),
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.InsertOrderItem[%d]: %w", i, err)
			}
		}
		return struct{}{}, nil
	})

	return err
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	rowsAffected, err := r.q.DeleteOrder(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("q.DeleteOrder: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, orderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	orders, err := r.attachLines(ctx, []db.Order{row})
	if err != nil {
		return domain.Order{}, err
	}

	return orders[0], nil
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrdersByOwner: %w", err)
	}

	return r.attachLines(ctx, rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	rowsAffected, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
		ID:     orderID,
		Status: string(status),
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order[%s]: %w", orderID, domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) attachLines(ctx context.Context, rows []db.Order) ([]domain.Order, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	dbItems, err := r.q.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderItems: %w", err)
	}

	itemsByOrder := make(map[uuid.UUID][]db.OrderItem, len(rows))
	for _, item := range dbItems {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		order, err := mapOrderToDomain(row, itemsByOrder[row.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func mapOrderToDomain(row db.Order, items []db.OrderItem) (domain.Order, error) {
	unit, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	status, err := domain.ParseOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ParseOrderStatus: %w", err)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.ProductName,
			UnitPrice: domain.NewMoney(item.UnitPrice, unit),
			Quantity:  int(item.Quantity),
			Total:     domain.NewMoney(item.TotalPrice, unit),
		})
	}

	return domain.Order{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Number:        row.OrderNumber,
		Email:         row.Email,
		Lines:         lines,
		Subtotal:      domain.NewMoney(row.Subtotal, unit),
		Tax:           domain.NewMoney(row.TaxAmount, unit),
		Shipping:      domain.NewMoney(row.ShippingAmount, unit),
		Total:         domain.NewMoney(row.Total, unit),
		Status:        status,
		PaymentStatus: domain.PaymentStatus(row.PaymentStatus),
		PaymentMethod: row.PaymentMethod,
		Billing: domain.Address{
			FirstName:  row.BillingFirstName,
			LastName:   row.BillingLastName,
			Line1:      row.BillingAddressLine1,
			City:       row.BillingCity,
			State:      row.BillingState,
			PostalCode: row.BillingPostalCode,
			Country:    row.BillingCountry,
		},
		ShippingTo: domain.Address{
			FirstName:  row.ShippingFirstName,
			LastName:   row.ShippingLastName,
			Line1:      row.ShippingAddressLine1,
			City:       row.ShippingCity,
			State:      row.ShippingState,
			PostalCode: row.ShippingPostalCode,
			Country:    row.ShippingCountry,
		},
		CreatedAt: row.CreatedAt,
	}, nil
}
