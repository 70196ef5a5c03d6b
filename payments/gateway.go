// Package payments talks to the card and bank-transfer gateways used at checkout.
package payments

import (
	"context"
	"errors"
	"time"
)

// IntentRequest describes the amount to collect for one order
type IntentRequest struct {
	OrderID        uint
	Amount         int64
	Currency       string
	ReceiptEmail   string
	IdempotencyKey string
}

// Intent is a created payment intent. ClientSecret is handed to the storefront.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// Payment is the gateway's view of a payment at lookup time
type Payment struct {
	ID           string
	Status       string
	Succeeded    bool
	OrderID      string
	Amount       int64
	Currency     string
	EmailAddress string
	UpdatedAt    time.Time
}

// Refund is the outcome of a refund request
type Refund struct {
	ID       string
	IntentID string
	Status   string
	Amount   int64
}

// StripeGateway is the subset of Stripe used by the order lifecycle
type StripeGateway interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (Payment, error)
	Refund(ctx context.Context, intentID, idempotencyKey string) (Refund, error)
}

// ErrNotConfigured is returned when no gateway credentials were supplied
var ErrNotConfigured = errors.New("payments: gateway not configured")

type unconfiguredStripe struct{}

// NewUnconfiguredStripe returns a gateway that fails every call. It stands in when
// STRIPE_SECRET_KEY is empty so VNPay checkout keeps working.
func NewUnconfiguredStripe() StripeGateway {
	return unconfiguredStripe{}
}

func (unconfiguredStripe) CreatePaymentIntent(context.Context, IntentRequest) (Intent, error) {
	return Intent{}, ErrNotConfigured
}

func (unconfiguredStripe) RetrievePaymentIntent(context.Context, string) (Payment, error) {
	return Payment{}, ErrNotConfigured
}

func (unconfiguredStripe) Refund(context.Context, string, string) (Refund, error) {
	return Refund{}, ErrNotConfigured
}
