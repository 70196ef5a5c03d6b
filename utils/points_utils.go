package utils

import (
	"fmt"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"gorm.io/gorm"
)

// PointsForAmount converts a delivered order total into loyalty points, rounding down
func PointsForAmount(total int64) int64 {
	rate := config.App.PointsConversionRate
	if rate <= 0 {
		rate = DefaultPointsConversionRate
	}
	if total <= 0 {
		return 0
	}
	return total / rate
}

// CreditPoints adds amount to the user's balance and journals the movement.
// It returns the balance after the credit.
func CreditPoints(tx *gorm.DB, userID uint, amount int64, description string, orderID *uint, reference string) (int64, error) {
	if amount > 0 {
		res := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("points", gorm.Expr("points + ?", amount))
		if res.Error != nil {
			return 0, fmt.Errorf("failed to credit points: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return 0, NotFoundError("User not found", nil)
		}
	}

	if err := RecordPointTransaction(tx, &models.PointTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeCredit,
		Description: description,
		OrderID:     orderID,
		Reference:   reference,
	}); err != nil {
		return 0, err
	}

	return PointsBalance(tx, userID)
}

// DebitPoints removes amount from the user's balance. The update only applies while the
// balance covers it, so two concurrent debits can never take the balance below zero.
func DebitPoints(tx *gorm.DB, userID uint, amount int64) error {
	res := tx.Model(&models.User{}).Where("id = ? AND points >= ?", userID, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit points: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}
	LogDebug("Debited %d points from user %d", amount, userID)
	return nil
}

// RecordPointTransaction appends a journal row
func RecordPointTransaction(tx *gorm.DB, txn *models.PointTransaction) error {
	if err := tx.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to record point transaction: %w", err)
	}
	return nil
}

// PointsBalance reads the current balance
func PointsBalance(tx *gorm.DB, userID uint) (int64, error) {
	var user models.User
	if err := tx.Select("id", "points").First(&user, userID).Error; err != nil {
		return 0, fmt.Errorf("failed to read points balance: %w", err)
	}
	return user.Points, nil
}
