package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliveryData struct {
	Delivery models.Delivery `json:"delivery"`
}

func TestCreateDelivery_FeeByDistrict(t *testing.T) {
	tests := []struct {
		district string
		fee      int64
	}{
		{"Quận 1", 50000},
		{"Quận 7", 110000},
		{"Quận Thủ Đức", 170000},
		{"Quận 99", 70000},
	}
	for _, tt := range tests {
		t.Run(tt.district, func(t *testing.T) {
			api := newTestAPI(t)
			staff := testutil.CreateUser(t, api.db, models.RoleStaff, 0)
			user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
			order := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 100000)
			require.NoError(t, api.db.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("shipping_district", tt.district).Error)

			before := time.Now()
			w := testutil.Request(t, api.router, http.MethodPost, fmt.Sprintf("/api/deliveries/%d", order.ID), nil, testutil.Token(t, staff))
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			var data deliveryData
			testutil.Decode(t, w, &data)
			assert.Equal(t, tt.fee, data.Delivery.ShippingFee)
			assert.Equal(t, models.DeliveryStatusPending, data.Delivery.DeliveryStatus)
			assert.WithinDuration(t, before.Add(72*time.Hour), data.Delivery.EstimatedDeliveryTime, time.Minute)
		})
	}
}

func TestCreateDelivery_Rejected(t *testing.T) {
	api := newTestAPI(t)
	staff := testutil.CreateUser(t, api.db, models.RoleStaff, 0)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	staffToken := testutil.Token(t, staff)

	t.Run("unknown order", func(t *testing.T) {
		w := testutil.Request(t, api.router, http.MethodPost, "/api/deliveries/9999", nil, staffToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", testutil.ErrorReason(t, w))
	})

	t.Run("no district", func(t *testing.T) {
		order := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 100000)
		require.NoError(t, api.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("shipping_district", "").Error)
		w := testutil.Request(t, api.router, http.MethodPost, fmt.Sprintf("/api/deliveries/%d", order.ID), nil, staffToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "MISSING_DESTINATION", testutil.ErrorReason(t, w))
	})

	t.Run("second delivery for the same order", func(t *testing.T) {
		order := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 100000)
		path := fmt.Sprintf("/api/deliveries/%d", order.ID)
		require.Equal(t, http.StatusCreated, testutil.Request(t, api.router, http.MethodPost, path, nil, staffToken).Code)

		w := testutil.Request(t, api.router, http.MethodPost, path, nil, staffToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "DELIVERY_EXISTS", testutil.ErrorReason(t, w))

		var count int64
		api.db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("customers cannot create deliveries", func(t *testing.T) {
		order := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 100000)
		w := testutil.Request(t, api.router, http.MethodPost, fmt.Sprintf("/api/deliveries/%d", order.ID), nil, testutil.Token(t, user))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestShipmentProgress(t *testing.T) {
	api := newTestAPI(t)
	staff := testutil.CreateUser(t, api.db, models.RoleStaff, 0)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	order := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 100000)
	createDeliveryRow(t, api.db, order.ID, models.DeliveryStatusPending)
	token := testutil.Token(t, staff)

	w := testutil.Request(t, api.router, http.MethodPut, fmt.Sprintf("/api/deliveries/%d/shipping", order.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data deliveryData
	testutil.Decode(t, w, &data)
	assert.Equal(t, models.DeliveryStatusShipping, data.Delivery.DeliveryStatus)
	assert.Equal(t, models.OrderStatusShipped, reloadOrder(t, api.db, order.ID).OrderStatus)
	assert.Empty(t, api.mail.Messages())

	w = testutil.Request(t, api.router, http.MethodPut, fmt.Sprintf("/api/deliveries/%d/mark-shipped", order.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testutil.Decode(t, w, &data)
	assert.Equal(t, models.DeliveryStatusShipped, data.Delivery.DeliveryStatus)

	sent := api.mail.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)
	assert.Contains(t, sent[0].Subject, fmt.Sprintf("#%d", order.ID))

	t.Run("missing delivery record", func(t *testing.T) {
		bare := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 100000)
		w := testutil.Request(t, api.router, http.MethodPut, fmt.Sprintf("/api/deliveries/%d/shipping", bare.ID), nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "DELIVERY_NOT_FOUND", testutil.ErrorReason(t, w))
		assert.Equal(t, models.OrderStatusPending, reloadOrder(t, api.db, bare.ID).OrderStatus)
	})
}

func TestGetDelivery_Visibility(t *testing.T) {
	api := newTestAPI(t)
	owner := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	stranger := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	staff := testutil.CreateUser(t, api.db, models.RoleStaff, 0)
	order := testutil.CreateOrder(t, api.db, owner.ID, models.PaymentMethodVNPay, 100000)
	path := fmt.Sprintf("/api/deliveries/%d", order.ID)

	w := testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, owner))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DELIVERY_NOT_FOUND", testutil.ErrorReason(t, w))

	createDeliveryRow(t, api.db, order.ID, models.DeliveryStatusPending)
	assert.Equal(t, http.StatusOK, testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, owner)).Code)
	assert.Equal(t, http.StatusOK, testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, staff)).Code)
	assert.Equal(t, http.StatusForbidden, testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, stranger)).Code)
}

func TestConfirmOrderReceived(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 5)
	order := testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 259000)
	setOrderStatus(t, api.db, order.ID, models.OrderStatusShipped)
	createDeliveryRow(t, api.db, order.ID, models.DeliveryStatusShipped)
	token := testutil.Token(t, user)
	path := fmt.Sprintf("/api/deliveries/%d/confirm", order.ID)

	w := testutil.Request(t, api.router, http.MethodPut, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		PointsAdded int64           `json:"points_added"`
		TotalPoints int64           `json:"total_points"`
		Delivery    models.Delivery `json:"delivery"`
	}
	testutil.Decode(t, w, &data)
	assert.Equal(t, int64(25), data.PointsAdded)
	assert.Equal(t, int64(30), data.TotalPoints)
	assert.Equal(t, models.DeliveryStatusDelivered, data.Delivery.DeliveryStatus)

	stored := reloadOrder(t, api.db, order.ID)
	assert.Equal(t, models.OrderStatusDelivered, stored.OrderStatus)
	assert.True(t, stored.PointsAwarded)
	assert.NotNil(t, stored.DeliveredAt)

	var journal []models.PointTransaction
	require.NoError(t, api.db.Where("user_id = ?", user.ID).Find(&journal).Error)
	require.Len(t, journal, 1)
	assert.Equal(t, models.TransactionTypeCredit, journal[0].Type)
	assert.Equal(t, int64(25), journal[0].Amount)

	t.Run("points are credited once", func(t *testing.T) {
		w := testutil.Request(t, api.router, http.MethodPut, path, nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ALREADY_CONFIRMED", testutil.ErrorReason(t, w))

		var fresh models.User
		require.NoError(t, api.db.First(&fresh, user.ID).Error)
		assert.Equal(t, int64(30), fresh.Points)
	})
}

func TestConfirmOrderReceived_Rejected(t *testing.T) {
	api := newTestAPI(t)
	owner := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	admin := testutil.CreateUser(t, api.db, models.RoleAdmin, 0)

	t.Run("not the owner", func(t *testing.T) {
		order := testutil.CreateOrder(t, api.db, owner.ID, models.PaymentMethodVNPay, 100000)
		createDeliveryRow(t, api.db, order.ID, models.DeliveryStatusShipped)
		w := testutil.Request(t, api.router, http.MethodPut, fmt.Sprintf("/api/deliveries/%d/confirm", order.ID), nil, testutil.Token(t, admin))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, reloadOrder(t, api.db, order.ID).PointsAwarded)
	})

	t.Run("cancelled order", func(t *testing.T) {
		order := testutil.CreateOrder(t, api.db, owner.ID, models.PaymentMethodVNPay, 100000)
		setOrderStatus(t, api.db, order.ID, models.OrderStatusCancelled)
		createDeliveryRow(t, api.db, order.ID, models.DeliveryStatusCancelled)
		w := testutil.Request(t, api.router, http.MethodPut, fmt.Sprintf("/api/deliveries/%d/confirm", order.ID), nil, testutil.Token(t, owner))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ILLEGAL_TRANSITION", testutil.ErrorReason(t, w))
	})

	t.Run("no delivery record", func(t *testing.T) {
		order := testutil.CreateOrder(t, api.db, owner.ID, models.PaymentMethodVNPay, 100000)
		w := testutil.Request(t, api.router, http.MethodPut, fmt.Sprintf("/api/deliveries/%d/confirm", order.ID), nil, testutil.Token(t, owner))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "DELIVERY_NOT_FOUND", testutil.ErrorReason(t, w))
	})

	var fresh models.User
	require.NoError(t, api.db.First(&fresh, owner.ID).Error)
	assert.Zero(t, fresh.Points)
}
