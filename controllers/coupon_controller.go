package controllers

import (
	"errors"
	"fmt"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RedeemCouponRequest spends points for a percentage discount
type RedeemCouponRequest struct {
	Points   int64 `json:"points"`
	Discount int   `json:"discount"`
}

const maxCouponCodeAttempts = 3

// RedeemCoupon debits points and mints a single-use coupon
func RedeemCoupon(c *gin.Context) {
	utils.LogInfo("RedeemCoupon called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}

	var req RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid redeem request: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}
	if req.Points <= 0 || req.Discount <= 0 {
		utils.LogError("Non-positive redeem values from user %d: points=%d discount=%d", user.ID, req.Points, req.Discount)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("Points and discount must be positive"))
		return
	}
	if req.Discount > 100 {
		utils.LogError("Discount %d over 100 from user %d", req.Discount, user.ID)
		utils.RespondError(c, utils.ErrInvalidInput.Withf("Discount cannot exceed 100%%"))
		return
	}

	var (
		coupon  models.Coupon
		balance int64
	)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := utils.DebitPoints(tx, user.ID, req.Points); err != nil {
			return err
		}

		issuedAt := now()
		for attempt := 1; ; attempt++ {
			coupon = models.Coupon{
				UserID:    user.ID,
				Code:      utils.GenerateCouponCode(),
				Discount:  req.Discount,
				ExpiresAt: issuedAt.Add(config.App.CouponValidity),
			}
			// a savepoint keeps the transaction usable after a code collision
			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(&coupon).Error
			})
			if err == nil {
				break
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxCouponCodeAttempts {
				return utils.InternalError("Failed to create coupon", err)
			}
			utils.LogDebug("Coupon code collision, retrying")
		}

		if err := utils.RecordPointTransaction(tx, &models.PointTransaction{
			UserID:      user.ID,
			Amount:      req.Points,
			Type:        models.TransactionTypeDebit,
			Description: fmt.Sprintf("Redeemed for %d%% coupon %s", req.Discount, coupon.Code),
			CouponID:    &coupon.ID,
			Reference:   "coupon-" + coupon.Code,
		}); err != nil {
			return err
		}

		var err error
		balance, err = utils.PointsBalance(tx, user.ID)
		return err
	})
	if err != nil {
		utils.LogError("Failed to redeem %d points for user %d: %v", req.Points, user.ID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("User %d redeemed %d points for coupon %s", user.ID, req.Points, coupon.Code)
	utils.Created(c, "Coupon redeemed successfully", gin.H{
		"coupon":       coupon,
		"total_points": balance,
	})
}

// ListMyCoupons lists the caller's coupons, newest first
func ListMyCoupons(c *gin.Context) {
	utils.LogInfo("ListMyCoupons called")
	user, _, ok := authUser(c)
	if !ok {
		return
	}
	listCoupons(c, user.ID)
}

// ListUserCoupons lists any user's coupons
func ListUserCoupons(c *gin.Context) {
	utils.LogInfo("ListUserCoupons called")
	userID, ok := uintParam(c, "userId")
	if !ok {
		return
	}
	if _, err := utils.GetUserByID(userID); err != nil {
		utils.LogError("User %d not found: %v", userID, err)
		utils.RespondError(c, err)
		return
	}
	listCoupons(c, userID)
}

func listCoupons(c *gin.Context, userID uint) {
	coupons := []models.Coupon{}
	if err := config.DB.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons for user %d: %v", userID, err)
		utils.RespondError(c, utils.InternalError("Failed to fetch coupons", err))
		return
	}
	utils.LogInfo("Retrieved %d coupons for user %d", len(coupons), userID)
	utils.Success(c, "Coupons retrieved successfully", gin.H{"coupons": coupons})
}
