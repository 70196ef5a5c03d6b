package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeLogger receives one event per gateway call
type StripeLogger func(ctx context.Context, event string, fields map[string]any)

type stripePaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeRefundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

type stripeClients struct {
	intents stripePaymentIntentAPI
	refunds stripeRefundAPI
}

// StripeProviderConfig configures the StripeProvider.
type StripeProviderConfig struct {
	APIKey   string
	Currency string
	Backends *stripe.Backends
	Logger   StripeLogger
	Clock    func() time.Time
	clients  *stripeClients
}

// StripeProvider implements StripeGateway with PaymentIntents and Refunds
type StripeProvider struct {
	api      stripeClients
	currency string
	clock    func() time.Time
	logger   StripeLogger
}

// NewStripeProvider constructs a StripeProvider using the given configuration.
func NewStripeProvider(cfg StripeProviderConfig) (*StripeProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && cfg.clients == nil {
		return nil, errors.New("stripe: api key is required")
	}

	var clients stripeClients
	if cfg.clients != nil {
		clients = *cfg.clients
	} else {
		sc := client.New(apiKey, cfg.Backends)
		clients = stripeClients{
			intents: sc.PaymentIntents,
			refunds: sc.Refunds,
		}
	}
	if clients.intents == nil || clients.refunds == nil {
		return nil, errors.New("stripe: incomplete client configuration")
	}

	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = string(stripe.CurrencyVND)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &StripeProvider{
		api:      clients,
		currency: currency,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// CreatePaymentIntent creates an intent for the order total tagged with the order id
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if p == nil {
		return Intent{}, errors.New("stripe: provider is nil")
	}
	if req.Amount <= 0 {
		return Intent{}, errors.New("stripe: amount must be positive")
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = p.currency
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatUint(uint64(req.OrderID), 10))
	if email := strings.TrimSpace(req.ReceiptEmail); email != "" {
		params.ReceiptEmail = stripe.String(email)
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}

	intent, err := p.api.intents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	p.logger(ctx, "payments.stripe.intent.created", map[string]any{
		"paymentIntent": intent.ID,
		"orderId":       req.OrderID,
		"amount":        intent.Amount,
	})
	return Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}, nil
}

// RetrievePaymentIntent fetches the current state of an intent from Stripe
func (p *StripeProvider) RetrievePaymentIntent(ctx context.Context, intentID string) (Payment, error) {
	if p == nil {
		return Payment{}, errors.New("stripe: provider is nil")
	}
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return Payment{}, errors.New("stripe: payment intent id is required")
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := p.api.intents.Get(intentID, params)
	if err != nil {
		return Payment{}, fmt.Errorf("stripe: lookup payment intent: %w", err)
	}
	return p.stripePayment(intent), nil
}

// Refund refunds the full captured amount of an intent
func (p *StripeProvider) Refund(ctx context.Context, intentID, idempotencyKey string) (Refund, error) {
	if p == nil {
		return Refund{}, errors.New("stripe: provider is nil")
	}
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return Refund{}, errors.New("stripe: payment intent id is required")
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	refund, err := p.api.refunds.New(params)
	if err != nil {
		return Refund{}, fmt.Errorf("stripe: refund payment intent: %w", err)
	}
	if refund.Status == stripe.RefundStatusFailed || refund.Status == stripe.RefundStatusCanceled {
		return Refund{}, fmt.Errorf("stripe: refund %s ended with status %s", refund.ID, refund.Status)
	}
	p.logger(ctx, "payments.stripe.intent.refunded", map[string]any{
		"paymentIntent": intentID,
		"refund":        refund.ID,
		"status":        refund.Status,
	})
	return Refund{
		ID:       refund.ID,
		IntentID: intentID,
		Status:   string(refund.Status),
		Amount:   refund.Amount,
	}, nil
}

func (p *StripeProvider) stripePayment(intent *stripe.PaymentIntent) Payment {
	payment := Payment{
		ID:           intent.ID,
		Status:       string(intent.Status),
		Succeeded:    intent.Status == stripe.PaymentIntentStatusSucceeded,
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
		EmailAddress: intent.ReceiptEmail,
		UpdatedAt:    p.clock(),
	}
	if intent.Metadata != nil {
		payment.OrderID = intent.Metadata["order_id"]
	}
	return payment
}
