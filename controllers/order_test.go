package controllers_test

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/testutil"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderData struct {
	Order models.Order `json:"order"`
}

func orderBody(productID uint, qty int, coupon string) map[string]interface{} {
	return map[string]interface{}{
		"items":          []map[string]interface{}{{"product_id": productID, "quantity": qty}},
		"payment_method": "Stripe",
		"coupon_code":    coupon,
	}
}

func TestCreateOrder_WithoutCoupon(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	brand := testutil.CreateBrand(t, api.db, "Glow Lab")
	product := testutil.CreateProduct(t, api.db, brand.ID, "Vitamin C Serum", 50000)

	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, 2, ""), testutil.Token(t, user))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data orderData
	testutil.Decode(t, w, &data)
	assert.Equal(t, int64(100000), data.Order.Subtotal)
	assert.Equal(t, int64(100000), data.Order.TotalAmount)
	assert.Equal(t, int64(0), data.Order.CouponDiscount)
	assert.Equal(t, models.OrderStatusPending, data.Order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, data.Order.PaymentStatus)
	assert.False(t, data.Order.IsPaid)
	require.Len(t, data.Order.OrderItems, 1)
	assert.Equal(t, "Vitamin C Serum", data.Order.OrderItems[0].Name)
	assert.Equal(t, "Quận 1", data.Order.ShippingAddress.District)
}

func TestCreateOrder_WithCoupon(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	brand := testutil.CreateBrand(t, api.db, "Glow Lab")
	product := testutil.CreateProduct(t, api.db, brand.ID, "Vitamin C Serum", 100000)
	coupon := testutil.CreateCoupon(t, api.db, user.ID, 10, time.Hour)
	token := testutil.Token(t, user)

	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, 1, coupon.Code), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data orderData
	testutil.Decode(t, w, &data)
	assert.Equal(t, int64(100000), data.Order.Subtotal)
	assert.Equal(t, int64(10000), data.Order.CouponDiscount)
	assert.Equal(t, int64(90000), data.Order.TotalAmount)
	assert.Equal(t, coupon.Code, data.Order.CouponCode)

	var stored models.Coupon
	require.NoError(t, api.db.First(&stored, coupon.ID).Error)
	assert.True(t, stored.IsUsed)
	require.NotNil(t, stored.OrderID)
	assert.Equal(t, data.Order.ID, *stored.OrderID)

	t.Run("coupon cannot be used twice", func(t *testing.T) {
		w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, 1, coupon.Code), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "COUPON_INVALID", testutil.ErrorReason(t, w))

		var count int64
		api.db.Model(&models.Order{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestCreateOrder_ClientPricing(t *testing.T) {
	api := newTestAPI(t)
	config.App.CatalogPricing = false
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 1, "quantity": 3, "price": 20000},
			{"product_id": 2, "quantity": 1, "price": 15000},
		},
		"payment_method": "VNPay",
	}
	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", body, testutil.Token(t, user))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data orderData
	testutil.Decode(t, w, &data)
	assert.Equal(t, int64(75000), data.Order.TotalAmount)
	assert.Equal(t, models.PaymentMethodVNPay, data.Order.PaymentMethod)
}

func TestCreateOrder_Rejected(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	other := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	brand := testutil.CreateBrand(t, api.db, "Glow Lab")
	product := testutil.CreateProduct(t, api.db, brand.ID, "Vitamin C Serum", 50000)
	expired := testutil.CreateCoupon(t, api.db, user.ID, 10, -time.Minute)
	foreign := testutil.CreateCoupon(t, api.db, other.ID, 10, time.Hour)
	token := testutil.Token(t, user)

	tests := []struct {
		name   string
		body   interface{}
		reason string
	}{
		{
			name:   "no items",
			body:   map[string]interface{}{"items": []interface{}{}, "payment_method": "Stripe"},
			reason: "INVALID_INPUT",
		},
		{
			name: "unknown payment method",
			body: map[string]interface{}{
				"items":          []map[string]interface{}{{"product_id": product.ID, "quantity": 1}},
				"payment_method": "Cash",
			},
			reason: "INVALID_INPUT",
		},
		{
			name:   "unknown product",
			body:   orderBody(9999, 1, ""),
			reason: "NOT_FOUND",
		},
		{name: "expired coupon", body: orderBody(product.ID, 1, expired.Code), reason: "COUPON_INVALID"},
		{name: "coupon of another user", body: orderBody(product.ID, 1, foreign.Code), reason: "COUPON_INVALID"},
		{name: "unknown coupon", body: orderBody(product.ID, 1, "SKIN-NOPE"), reason: "COUPON_INVALID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", tt.body, token)
			require.NotEqual(t, http.StatusCreated, w.Code)
			assert.Equal(t, tt.reason, testutil.ErrorReason(t, w))
		})
	}

	var count int64
	api.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)

	var stored models.Coupon
	require.NoError(t, api.db.First(&stored, foreign.ID).Error)
	assert.False(t, stored.IsUsed)
}

func TestCreateOrder_MissingDistrict(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	brand := testutil.CreateBrand(t, api.db, "Glow Lab")
	product := testutil.CreateProduct(t, api.db, brand.ID, "Toner", 30000)

	body := orderBody(product.ID, 1, "")
	addr := testutil.TestAddress("")
	body["shipping_address"] = addr
	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", body, testutil.Token(t, user))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", testutil.ErrorReason(t, w))
}

func TestCreateOrder_NoSavedAddress(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	require.NoError(t, api.db.Model(&user).Update("address_street", "").Error)
	brand := testutil.CreateBrand(t, api.db, "Glow Lab")
	product := testutil.CreateProduct(t, api.db, brand.ID, "Toner", 30000)

	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, 1, ""), testutil.Token(t, user))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", testutil.ErrorReason(t, w))
}

func TestCreateOrder_RequiresLogin(t *testing.T) {
	api := newTestAPI(t)
	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(1, 1, ""), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplyCoupon(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	coupon := testutil.CreateCoupon(t, api.db, user.ID, 15, time.Hour)
	token := testutil.Token(t, user)

	w := testutil.Request(t, api.router, http.MethodPost, "/api/orders/apply-coupon",
		map[string]interface{}{"coupon_code": coupon.Code, "total_amount": 200000}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		CouponCode      string `json:"coupon_code"`
		Discount        int    `json:"discount"`
		DiscountAmount  int64  `json:"discount_amount"`
		DiscountedTotal int64  `json:"discounted_total"`
	}
	testutil.Decode(t, w, &data)
	assert.Equal(t, coupon.Code, data.CouponCode)
	assert.Equal(t, 15, data.Discount)
	assert.Equal(t, int64(30000), data.DiscountAmount)
	assert.Equal(t, int64(170000), data.DiscountedTotal)

	var stored models.Coupon
	require.NoError(t, api.db.First(&stored, coupon.ID).Error)
	assert.False(t, stored.IsUsed, "previewing must not consume the coupon")
}

func TestGetOrder_Visibility(t *testing.T) {
	api := newTestAPI(t)
	owner := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	stranger := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	staff := testutil.CreateUser(t, api.db, models.RoleStaff, 0)
	order := testutil.CreateOrder(t, api.db, owner.ID, models.PaymentMethodStripe, 120000)
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	assert.Equal(t, http.StatusOK, testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, owner)).Code)
	assert.Equal(t, http.StatusOK, testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, staff)).Code)

	w := testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, stranger))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Request(t, api.router, http.MethodGet, "/api/orders/9999", nil, testutil.Token(t, owner))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", testutil.ErrorReason(t, w))
}

func TestListMyOrders(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	other := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	token := testutil.Token(t, user)

	w := testutil.Request(t, api.router, http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var empty struct {
		Orders []models.Order `json:"orders"`
	}
	testutil.Decode(t, w, &empty)
	assert.NotNil(t, empty.Orders)
	assert.Empty(t, empty.Orders)

	testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodStripe, 10000)
	testutil.CreateOrder(t, api.db, user.ID, models.PaymentMethodVNPay, 20000)
	testutil.CreateOrder(t, api.db, other.ID, models.PaymentMethodVNPay, 30000)

	w = testutil.Request(t, api.router, http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Orders []models.Order `json:"orders"`
	}
	testutil.Decode(t, w, &data)
	require.Len(t, data.Orders, 2)
	for _, o := range data.Orders {
		assert.Equal(t, user.ID, o.UserID)
	}
}

func TestDownloadInvoice(t *testing.T) {
	api := newTestAPI(t)
	owner := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	stranger := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	order := testutil.CreateOrder(t, api.db, owner.ID, models.PaymentMethodVNPay, 259000)
	path := fmt.Sprintf("/api/orders/%d/invoice", order.ID)

	w := testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, owner))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), fmt.Sprintf("invoice_%d.pdf", order.ID))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = testutil.Request(t, api.router, http.MethodGet, path, nil, testutil.Token(t, stranger))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateOrder_OversizedLines(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	brand := testutil.CreateBrand(t, api.db, "Glow Lab")
	product := testutil.CreateProduct(t, api.db, brand.ID, "Vitamin C Serum", 50000)
	token := testutil.Token(t, user)

	assertNoOrders := func(t *testing.T) {
		t.Helper()
		var count int64
		api.db.Model(&models.Order{}).Count(&count)
		assert.Equal(t, int64(0), count)
	}

	t.Run("quantity that would overflow the total", func(t *testing.T) {
		w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, 184467440737096, ""), token)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, "INVALID_INPUT", testutil.ErrorReason(t, w))
		assertNoOrders(t)
	})

	t.Run("quantity above the line limit", func(t *testing.T) {
		w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, utils.MaxItemQuantity+1, ""), token)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, "INVALID_INPUT", testutil.ErrorReason(t, w))
		assertNoOrders(t)
	})

	t.Run("client price above the limit", func(t *testing.T) {
		config.App.CatalogPricing = false
		t.Cleanup(func() { config.App.CatalogPricing = true })
		body := map[string]interface{}{
			"items":          []map[string]interface{}{{"product_id": product.ID, "quantity": 2, "price": int64(math.MaxInt64 / 2)}},
			"payment_method": "VNPay",
		}
		w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", body, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, "INVALID_INPUT", testutil.ErrorReason(t, w))
		assertNoOrders(t)
	})

	t.Run("largest allowed line is accepted", func(t *testing.T) {
		w := testutil.Request(t, api.router, http.MethodPost, "/api/orders", orderBody(product.ID, utils.MaxItemQuantity, ""), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data orderData
		testutil.Decode(t, w, &data)
		assert.Equal(t, int64(50000*utils.MaxItemQuantity), data.Order.TotalAmount)
	})
}
