package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

type fakeIntents struct {
	created *stripe.PaymentIntentParams
	intent  *stripe.PaymentIntent
	err     error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.created = params
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func (f *fakeIntents) Get(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.intent == nil || f.intent.ID != id {
		return nil, errors.New("no such payment_intent")
	}
	return f.intent, nil
}

type fakeRefunds struct {
	params *stripe.RefundParams
	refund *stripe.Refund
	err    error
}

func (f *fakeRefunds) New(params *stripe.RefundParams) (*stripe.Refund, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.refund, nil
}

func newTestProvider(t *testing.T, intents *fakeIntents, refunds *fakeRefunds) *StripeProvider {
	t.Helper()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p, err := NewStripeProvider(StripeProviderConfig{
		Currency: "VND",
		Clock:    func() time.Time { return fixed },
		clients:  &stripeClients{intents: intents, refunds: refunds},
	})
	require.NoError(t, err)
	return p
}

func TestNewStripeProviderRequiresKey(t *testing.T) {
	_, err := NewStripeProvider(StripeProviderConfig{})
	assert.Error(t, err)
}

func TestCreatePaymentIntentTagsOrder(t *testing.T) {
	intents := &fakeIntents{intent: &stripe.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		Amount:       90000,
		Currency:     stripe.CurrencyVND,
	}}
	p := newTestProvider(t, intents, &fakeRefunds{})

	intent, err := p.CreatePaymentIntent(context.Background(), IntentRequest{
		OrderID:        42,
		Amount:         90000,
		ReceiptEmail:   "buyer@example.com",
		IdempotencyKey: "order-42-intent",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	require.NotNil(t, intents.created)
	assert.Equal(t, int64(90000), *intents.created.Amount)
	assert.Equal(t, "vnd", *intents.created.Currency)
	assert.Equal(t, "42", intents.created.Metadata["order_id"])
	assert.Equal(t, "buyer@example.com", *intents.created.ReceiptEmail)
	assert.Equal(t, "order-42-intent", *intents.created.IdempotencyKey)
}

func TestCreatePaymentIntentRejectsZeroAmount(t *testing.T) {
	p := newTestProvider(t, &fakeIntents{}, &fakeRefunds{})
	_, err := p.CreatePaymentIntent(context.Background(), IntentRequest{OrderID: 1})
	assert.Error(t, err)
}

func TestRetrievePaymentIntent(t *testing.T) {
	intents := &fakeIntents{intent: &stripe.PaymentIntent{
		ID:           "pi_ok",
		Status:       stripe.PaymentIntentStatusSucceeded,
		Amount:       120000,
		ReceiptEmail: "buyer@example.com",
		Metadata:     map[string]string{"order_id": "7"},
	}}
	p := newTestProvider(t, intents, &fakeRefunds{})

	payment, err := p.RetrievePaymentIntent(context.Background(), "pi_ok")
	require.NoError(t, err)
	assert.True(t, payment.Succeeded)
	assert.Equal(t, "succeeded", payment.Status)
	assert.Equal(t, "7", payment.OrderID)
	assert.Equal(t, "buyer@example.com", payment.EmailAddress)

	intents.intent.Status = stripe.PaymentIntentStatusProcessing
	payment, err = p.RetrievePaymentIntent(context.Background(), "pi_ok")
	require.NoError(t, err)
	assert.False(t, payment.Succeeded)
}

func TestRefund(t *testing.T) {
	refunds := &fakeRefunds{refund: &stripe.Refund{ID: "re_1", Status: stripe.RefundStatusSucceeded, Amount: 5000}}
	p := newTestProvider(t, &fakeIntents{}, refunds)

	refund, err := p.Refund(context.Background(), "pi_paid", "cancel-9")
	require.NoError(t, err)
	assert.Equal(t, "re_1", refund.ID)
	assert.Equal(t, "pi_paid", *refunds.params.PaymentIntent)
	assert.Equal(t, "cancel-9", *refunds.params.IdempotencyKey)
}

func TestRefundFailures(t *testing.T) {
	refunds := &fakeRefunds{err: errors.New("card_declined")}
	p := newTestProvider(t, &fakeIntents{}, refunds)

	_, err := p.Refund(context.Background(), "pi_paid", "")
	assert.Error(t, err)

	refunds.err = nil
	refunds.refund = &stripe.Refund{ID: "re_2", Status: stripe.RefundStatusFailed}
	_, err = p.Refund(context.Background(), "pi_paid", "")
	assert.Error(t, err)

	_, err = p.Refund(context.Background(), " ", "")
	assert.Error(t, err)
}

func TestVNPayReceipt(t *testing.T) {
	now := time.Now()
	payment, err := VNPayReceipt(" 14012345 ", "buyer@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, "14012345", payment.ID)
	assert.True(t, payment.Succeeded)
	assert.Equal(t, VNPayStatusSuccess, payment.Status)

	_, err = VNPayReceipt("", "", now)
	assert.Error(t, err)
}
