package repository_test

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_products.up.sql",
			"../migrations/02_users.up.sql",
			"../migrations/03_cart_items.up.sql",
			"../migrations/04_orders.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:     uuid.MustParse(gofakeit.UUID()),
		Name:   gofakeit.ProductName(),
		Price:  randomMoney(),
		Images: []string{gofakeit.URL()},
		Stock:  gofakeit.IntRange(0, 100),
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func randomAddress() domain.Address {
	return domain.Address{
		FirstName:  gofakeit.FirstName(),
		LastName:   gofakeit.LastName(),
		Line1:      gofakeit.Street(),
		City:       gofakeit.City(),
		State:      gofakeit.State(),
		PostalCode: gofakeit.Zip(),
	}
}
