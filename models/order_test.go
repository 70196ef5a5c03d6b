package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:    {OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
		OrderStatusProcessing: {OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:    {OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered},
		OrderStatusDelivered:  {OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
		OrderStatusCancelled:  {OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	}

	for from, targets := range allowed {
		for _, to := range OrderStatuses {
			want := containsStatus(targets, to)
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, OrderStatusPending.CanTransitionTo("Lost"))
}

func TestOrderStatusDeliveryStatus(t *testing.T) {
	tests := []struct {
		order OrderStatus
		want  DeliveryStatus
		ok    bool
	}{
		{OrderStatusPending, DeliveryStatusPending, true},
		{OrderStatusProcessing, "", false},
		{OrderStatusShipped, DeliveryStatusShipped, true},
		{OrderStatusDelivered, DeliveryStatusDelivered, true},
		{OrderStatusCancelled, DeliveryStatusCancelled, true},
	}
	for _, tt := range tests {
		got, ok := tt.order.DeliveryStatus()
		assert.Equal(t, tt.ok, ok, tt.order)
		assert.Equal(t, tt.want, got, tt.order)
	}
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, PaymentMethodStripe.Valid())
	assert.True(t, PaymentMethodVNPay.Valid())
	assert.False(t, PaymentMethod("stripe").Valid())

	assert.True(t, DeliveryStatusShipping.Valid())
	assert.False(t, DeliveryStatus("Lost").Valid())

	assert.True(t, SkinType("").Valid())
	assert.False(t, SkinType("Scaly").Valid())

	assert.True(t, CategorySunscreen.Valid())
	assert.False(t, Category("Perfume").Valid())
}

func TestAddressIsComplete(t *testing.T) {
	a := Address{FullName: "A", Street: "S", City: "C", District: "Quận 1", Phone: "0901234567"}
	assert.True(t, a.IsComplete())
	a.District = "  "
	assert.False(t, a.IsComplete())
}
