package checkout

import (
	"fmt"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/shopspring/decimal"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

var (
	// USDRate is the fixed number of cedis per US dollar used for prices
	// quoted in dollars.
	USDRate = decimal.NewFromInt(12)

	TaxRate = decimal.RequireFromString("0.08")

	freeShippingAbove = USDToGHS(decimal.NewFromInt(50))
	standardShipping  = USDToGHS(decimal.RequireFromString("9.99"))
	expressShipping   = USDToGHS(decimal.RequireFromString("15.99"))
)

func USDToGHS(usd decimal.Decimal) decimal.Decimal {
	return usd.Mul(USDRate)
}

type Quote struct {
	Subtotal domain.Money
	Shipping domain.Money
	Tax      domain.Money
	Total    domain.Money
}

// NewQuote prices a cart subtotal. Standard shipping is free strictly above
// the threshold; express is always charged. Tax is rounded to two places.
func NewQuote(subtotal domain.Money, method ShippingMethod) (Quote, error) {
	if subtotal.Currency != domain.GHS {
		return Quote{}, fmt.Errorf("subtotal currency %s: want %s", subtotal.Currency, domain.GHS)
	}

	var shipping decimal.Decimal
	switch method {
	case ShippingExpress:
		shipping = expressShipping
	case ShippingStandard, "":
		if !subtotal.Amount.GreaterThan(freeShippingAbove) {
			shipping = standardShipping
		}
	default:
		return Quote{}, fmt.Errorf("unknown shipping method %q", method)
	}

	tax := subtotal.Amount.Mul(TaxRate).Round(2)
	total := subtotal.Amount.Add(shipping).Add(tax)

	return Quote{
		Subtotal: subtotal,
		Shipping: domain.NewMoney(shipping, domain.GHS),
		Tax:      domain.NewMoney(tax, domain.GHS),
		Total:    domain.NewMoney(total, domain.GHS),
	}, nil
}

func (q Quote) draft(f Form) domain.OrderDraft {
	addr := f.address()

	return domain.OrderDraft{
		Subtotal:      q.Subtotal,
		Tax:           q.Tax,
		Shipping:      q.Shipping,
		Total:         q.Total,
		Billing:       addr,
		ShippingTo:    addr,
		PaymentMethod: f.PaymentMethod,
	}
}
