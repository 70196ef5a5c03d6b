package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/SkinSphere/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const couponCodePrefix = "SKIN-"

// GenerateCouponCode returns a random code such as SKIN-3F9A0C1B7D2E
func GenerateCouponCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return couponCodePrefix + strings.ToUpper(raw[:12])
}

// ApplyCouponDiscount returns floor(raw*pct/100) and the total after it, never below zero
func ApplyCouponDiscount(raw int64, pct int) (discount, total int64) {
	if raw <= 0 || pct <= 0 {
		if raw < 0 {
			raw = 0
		}
		return 0, raw
	}
	discount = raw * int64(pct) / 100
	total = raw - discount
	if total < 0 {
		total = 0
	}
	return discount, total
}

// FindRedeemableCoupon loads an unused, unexpired coupon owned by userID
func FindRedeemableCoupon(tx *gorm.DB, code string, userID uint, now time.Time) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCouponInvalid
	}

	var coupon models.Coupon
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponInvalid.Withf("Coupon %s does not exist", code)
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if coupon.UserID != userID {
		return nil, ErrCouponInvalid.Withf("Coupon %s does not belong to you", code)
	}
	if coupon.IsUsed {
		return nil, ErrCouponInvalid.Withf("Coupon %s has already been used", code)
	}
	if !now.Before(coupon.ExpiresAt) {
		return nil, ErrCouponInvalid.Withf("Coupon %s has expired", code)
	}
	return &coupon, nil
}

// ConsumeCoupon marks the coupon used by orderID. Only the first caller wins; a coupon
// that another request consumed in the meantime yields ErrCouponInvalid.
func ConsumeCoupon(tx *gorm.DB, couponID, orderID uint, now time.Time) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND is_used = ?", couponID, false).
		Updates(map[string]interface{}{
			"is_used":  true,
			"used_at":  now,
			"order_id": orderID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to consume coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCouponInvalid.Withf("Coupon has already been used")
	}
	return nil
}
