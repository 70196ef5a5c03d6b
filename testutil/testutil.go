// Package testutil wires an in-memory database and request helpers for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestJWTSecret signs tokens issued during tests
const TestJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// SetupDB points config.DB at a fresh migrated in-memory database and installs
// default configuration. Both are restored when the test ends.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	prevDB, prevApp := config.DB, config.App
	cfg := config.Defaults()
	cfg.JWTSecret = TestJWTSecret
	config.DB = db
	config.App = cfg

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		config.DB, config.App = prevDB, prevApp
	})
	return db
}

// CreateUser inserts a verified user with the given role and point balance
func CreateUser(t *testing.T, db *gorm.DB, role models.Role, points int64) models.User {
	t.Helper()
	hash, err := utils.HashPassword("Secret123")
	require.NoError(t, err)
	id := uuid.NewString()[:8]
	user := models.User{
		Name:       "User " + id,
		Email:      id + "@example.com",
		Password:   hash,
		Role:       role,
		IsVerified: true,
		Points:     points,
		Address:    TestAddress("Quận 1"),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// TestAddress returns a complete shipping address in district
func TestAddress(district string) models.Address {
	return models.Address{
		FullName: "Nguyen Van A",
		Street:   "12 Le Loi",
		City:     "Ho Chi Minh",
		District: district,
		Phone:    "0901234567",
	}
}

// CreateBrand inserts an active brand
func CreateBrand(t *testing.T, db *gorm.DB, name string) models.Brand {
	t.Helper()
	brand := models.Brand{BrandName: name}
	require.NoError(t, db.Create(&brand).Error)
	return brand
}

// CreateProduct inserts an active product of brand priced at price
func CreateProduct(t *testing.T, db *gorm.DB, brandID uint, name string, price int64) models.Product {
	t.Helper()
	product := models.Product{
		Name:      name,
		BrandID:   brandID,
		Category:  models.CategorySerum,
		Price:     price,
		Stock:     50,
		SkinTypes: []models.SkinType{models.SkinTypeOily},
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// CreateCoupon inserts an unused coupon for userID expiring in ttl
func CreateCoupon(t *testing.T, db *gorm.DB, userID uint, discount int, ttl time.Duration) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		UserID:    userID,
		Code:      utils.GenerateCouponCode(),
		Discount:  discount,
		ExpiresAt: time.Now().Add(ttl),
	}
	require.NoError(t, db.Create(&coupon).Error)
	return coupon
}

// CreateOrder inserts a pending order with one line item
func CreateOrder(t *testing.T, db *gorm.DB, userID uint, method models.PaymentMethod, total int64) models.Order {
	t.Helper()
	order := models.Order{
		UserID: userID,
		OrderItems: []models.OrderItem{
			{ProductID: 1, Name: "Serum", Quantity: 1, Price: total, Total: total},
		},
		Subtotal:        total,
		TotalAmount:     total,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPending,
		ShippingAddress: TestAddress("Quận 1"),
		Version:         1,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

// Token issues an access token for user
func Token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(&user)
	require.NoError(t, err)
	return token
}

// Request performs an HTTP request against router and returns the recorder.
// body is JSON-encoded unless nil; token becomes a bearer Authorization header.
func Request(t *testing.T, router http.Handler, method, path string, body interface{}, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Envelope is the decoded standard response
type Envelope struct {
	Status     string                 `json:"status"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Pagination map[string]interface{} `json:"pagination"`
}

// Decode parses the standard response envelope and, when dest is non-nil, its data field
func Decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest), string(env.Data))
	}
	return env
}

// ErrorReason extracts data.error from an error envelope
func ErrorReason(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var data struct {
		Error string `json:"error"`
	}
	Decode(t, w, &data)
	return data.Error
}
