// Package payment is a stand-in payment processor. It validates card numbers
// and declines a few well known test numbers, but never moves money.
package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/metrics"
	"github.com/nikolayk812/cartsync/internal/port"
	"github.com/rs/zerolog"
)

const (
	MethodCard      = "card"
	MethodPayPal    = "paypal"
	MethodApplePay  = "apple_pay"
	MethodGooglePay = "google_pay"

	DefaultDelay = 2 * time.Second

	ReasonInvalidAmount = "Invalid amount"
	ReasonInvalidCard   = "Invalid card number"
	ReasonCardDeclined  = "Card declined"

	declinedMarker = "0000"
)

type Method struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Enabled bool   `json:"enabled"`
}

var methods = []Method{
	{ID: MethodCard, Type: MethodCard, Name: "Credit/Debit Card", Icon: "💳", Enabled: true},
	{ID: MethodPayPal, Type: MethodPayPal, Name: "PayPal", Icon: "🅿️", Enabled: true},
	{ID: MethodApplePay, Type: MethodApplePay, Name: "Apple Pay", Icon: "🍎", Enabled: true},
	{ID: MethodGooglePay, Type: MethodGooglePay, Name: "Google Pay", Icon: "🔵", Enabled: true},
}

// Methods lists the payment methods offered at checkout.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

func KnownMethod(id string) bool {
	for _, m := range methods {
		if m.ID == id && m.Enabled {
			return true
		}
	}
	return false
}

type Option func(*Gateway)

// WithDelay overrides the simulated processing time.
func WithDelay(d time.Duration) Option {
	return func(g *Gateway) {
		g.delay = d
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) {
		g.log = log
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

type Gateway struct {
	delay   time.Duration
	log     zerolog.Logger
	metrics *metrics.Metrics
}

var _ port.PaymentGateway = (*Gateway)(nil)

func NewGateway(opts ...Option) *Gateway {
	g := &Gateway{delay: DefaultDelay, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ProcessPayment waits for the simulated processing time and then approves
// or declines the request. Declines are reported in the result; the error is
// only set when ctx ends first.
func (g *Gateway) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.PaymentResult{}, ctx.Err()
		}
	}

	result := g.decide(req)
	g.metrics.Payment(req.Method, result.Success)

	level := zerolog.InfoLevel
	if !result.Success {
		level = zerolog.WarnLevel
	}
	g.log.WithLevel(level).
		Str("method", req.Method).
		Str("amount", req.Amount.String()).
		Str("transaction_id", result.TransactionID).
		Str("reason", result.Error).
		Msg("payment processed")

	return result, nil
}

func (g *Gateway) decide(req domain.PaymentRequest) domain.PaymentResult {
	if !req.Amount.Amount.IsPositive() {
		return domain.PaymentResult{Error: ReasonInvalidAmount}
	}

	if req.Method == MethodCard && req.Card != nil {
		if valid, _ := ValidateCard(req.Card.Number); !valid {
			return domain.PaymentResult{Error: ReasonInvalidCard}
		}
		if strings.Contains(req.Card.Number, declinedMarker) {
			return domain.PaymentResult{Error: ReasonCardDeclined}
		}
	}

	return domain.PaymentResult{
		Success:       true,
		TransactionID: newTransactionID(),
		Method:        req.Method,
	}
}

func newTransactionID() string {
	return "txn_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
