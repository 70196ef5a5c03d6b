package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Govind-619/SkinSphere/payments"
)

// FakeStripe is an in-memory payments.StripeGateway
type FakeStripe struct {
	mu sync.Mutex

	intents map[string]payments.Payment
	seq     int

	CreateErr   error
	RetrieveErr error
	RefundErr   error

	Refunded []string
}

// NewFakeStripe returns an empty fake gateway
func NewFakeStripe() *FakeStripe {
	return &FakeStripe{intents: map[string]payments.Payment{}}
}

// CreatePaymentIntent implements payments.StripeGateway
func (f *FakeStripe) CreatePaymentIntent(_ context.Context, req payments.IntentRequest) (payments.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return payments.Intent{}, f.CreateErr
	}
	f.seq++
	id := fmt.Sprintf("pi_test_%d", f.seq)
	f.intents[id] = payments.Payment{
		ID:       id,
		Status:   "requires_payment_method",
		OrderID:  strconv.FormatUint(uint64(req.OrderID), 10),
		Amount:   req.Amount,
		Currency: req.Currency,
	}
	return payments.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       req.Amount,
		Currency:     req.Currency,
	}, nil
}

// RetrievePaymentIntent implements payments.StripeGateway
func (f *FakeStripe) RetrievePaymentIntent(_ context.Context, id string) (payments.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RetrieveErr != nil {
		return payments.Payment{}, f.RetrieveErr
	}
	p, ok := f.intents[id]
	if !ok {
		return payments.Payment{}, fmt.Errorf("no such payment_intent: %s", id)
	}
	return p, nil
}

// Refund implements payments.StripeGateway
func (f *FakeStripe) Refund(_ context.Context, intentID, _ string) (payments.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RefundErr != nil {
		return payments.Refund{}, f.RefundErr
	}
	f.Refunded = append(f.Refunded, intentID)
	return payments.Refund{ID: "re_" + intentID, IntentID: intentID, Status: "succeeded"}, nil
}

// Succeed marks an intent as paid, optionally for a different order id
func (f *FakeStripe) Succeed(id string, orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.intents[id]
	p.ID = id
	p.Status = "succeeded"
	p.Succeeded = true
	p.UpdatedAt = time.Now().UTC()
	if orderID != "" {
		p.OrderID = orderID
	}
	f.intents[id] = p
}

// SentMail is one message captured by FakeMailer
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records outgoing mail
type FakeMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

// Send implements utils.Mailer
func (m *FakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	return m.Err
}

// Messages returns a copy of the captured mail
func (m *FakeMailer) Messages() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.Sent...)
}
