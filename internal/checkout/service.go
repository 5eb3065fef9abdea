package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/rs/zerolog"
)

var ErrPaymentDeclined = errors.New("payment declined")

// Cart is the part of the synchronizer checkout needs. CreateOrder must write
// exactly the items it is given.
type Cart interface {
	Items() []domain.CartItem
	CreateOrder(ctx context.Context, draft domain.OrderDraft, items []domain.CartItem) (domain.Order, error)
}

type Receipt struct {
	Order   domain.Order
	Quote   Quote
	Payment domain.PaymentResult
}

type Service struct {
	payments port.PaymentGateway
	log      zerolog.Logger
}

func NewService(payments port.PaymentGateway, log zerolog.Logger) *Service {
	return &Service{payments: payments, log: log}
}

// PlaceOrder validates the form, charges the quoted total and creates the
// order from the same cart snapshot the quote was priced from. Nothing is
// charged for a guest or an empty cart.
func (s *Service) PlaceOrder(ctx context.Context, principal *domain.Principal, cart Cart, form Form) (Receipt, error) {
	if principal == nil {
		return Receipt{}, domain.ErrNotAuthenticated
	}
	if form.Email == "" {
		form.Email = principal.Email
	}
	if form.ShippingMethod == "" {
		form.ShippingMethod = ShippingStandard
	}

	if err := form.Validate(); err != nil {
		return Receipt{}, err
	}
	items := cart.Items()
	if len(items) == 0 {
		return Receipt{}, domain.ErrEmptyCart
	}

	subtotal, err := domain.Subtotal(items)
	if err != nil {
		return Receipt{}, fmt.Errorf("domain.Subtotal: %w", err)
	}

	quote, err := NewQuote(subtotal, form.ShippingMethod)
	if err != nil {
		return Receipt{}, fmt.Errorf("NewQuote: %w", err)
	}

	log := s.log.With().Str("principal_id", principal.ID).Str("method", form.PaymentMethod).Logger()

	paid, err := s.payments.ProcessPayment(ctx, form.paymentRequest(quote.Total))
	if err != nil {
		return Receipt{}, fmt.Errorf("payments.ProcessPayment: %w", err)
	}
	if !paid.Success {
		log.Info().Str("reason", paid.Error).Msg("payment declined")
		return Receipt{Quote: quote, Payment: paid}, fmt.Errorf("%w: %s", ErrPaymentDeclined, paid.Error)
	}

	order, err := cart.CreateOrder(ctx, quote.draft(form), items)
	if err != nil {
		// the shopper has been charged; the transaction id is needed to reconcile by hand
		log.Error().Err(err).Str("transaction_id", paid.TransactionID).Msg("order not created after payment")
		return Receipt{Quote: quote, Payment: paid}, fmt.Errorf("cart.CreateOrder: %w", err)
	}

	return Receipt{Order: order, Quote: quote, Payment: paid}, nil
}
