package payments

import (
	"errors"
	"strings"
	"time"
)

// VNPayStatusSuccess is the response code VNPay reports for a settled transaction
const VNPayStatusSuccess = "00"

// VNPayReceipt turns the transaction reference posted back by the storefront into a
// Payment. VNPay callbacks are trusted as supplied and are not re-verified with the bank.
func VNPayReceipt(transactionID, email string, now time.Time) (Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return Payment{}, errors.New("vnpay: transaction id is required")
	}
	return Payment{
		ID:           transactionID,
		Status:       VNPayStatusSuccess,
		Succeeded:    true,
		EmailAddress: strings.TrimSpace(email),
		UpdatedAt:    now.UTC(),
	}, nil
}
