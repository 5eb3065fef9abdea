// Package checkout prices a cart, validates the checkout form, charges the
// shopper and turns the cart into an order.
package checkout

import (
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/payment"
)

const MethodCard = payment.MethodCard

// Form is what the shopper submits at checkout. The shipping address is also
// used as the billing address.
type Form struct {
	FirstName string `json:"first_name" label:"First Name" validate:"notblank"`
	LastName  string `json:"last_name" label:"Last Name" validate:"notblank"`
	Email     string `json:"email" label:"Email" validate:"notblank,shopper_email"`
	Phone     string `json:"phone" label:"Phone" validate:"notblank"`
	Address   string `json:"address" label:"Address" validate:"notblank"`
	City      string `json:"city" label:"City" validate:"notblank"`
	State     string `json:"state" label:"State" validate:"notblank"`
	ZipCode   string `json:"zip_code" label:"ZIP Code" validate:"notblank"`
	Country   string `json:"country" label:"Country"`

	ShippingMethod ShippingMethod `json:"shipping_method" label:"Shipping Method" validate:"omitempty,oneof=standard express"`
	PaymentMethod  string         `json:"payment_method" label:"Payment Method" validate:"oneof=card paypal apple_pay google_pay"`

	Card CardForm `json:"card" validate:"-"`
}

type CardForm struct {
	Number     string `json:"number" label:"Card Number" validate:"notblank"`
	Expiry     string `json:"expiry" label:"Expiry Date" validate:"notblank"`
	CVV        string `json:"cvv" label:"CVV" validate:"notblank"`
	NameOnCard string `json:"name_on_card" label:"Name on Card" validate:"notblank"`
}

func (f Form) address() domain.Address {
	return domain.Address{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Line1:      f.Address,
		City:       f.City,
		State:      f.State,
		PostalCode: f.ZipCode,
		Country:    f.Country,
	}.WithDefaults()
}

func (f Form) paymentRequest(amount domain.Money) domain.PaymentRequest {
	billing := f.address()

	req := domain.PaymentRequest{
		Amount:  amount,
		Method:  f.PaymentMethod,
		Billing: &billing,
	}
	if f.PaymentMethod == MethodCard {
		req.Card = &domain.CardDetails{
			Number:     f.Card.Number,
			Expiry:     f.Card.Expiry,
			CVV:        f.Card.CVV,
			NameOnCard: f.Card.NameOnCard,
		}
	}

	return req
}
