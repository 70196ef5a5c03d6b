package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError and decides its HTTP status
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindGateway        ErrorKind = "gateway"
	KindInternal       ErrorKind = "internal"
)

var kindStatus = map[ErrorKind]int{
	KindValidation:     http.StatusBadRequest,
	KindAuthentication: http.StatusUnauthorized,
	KindAuthorization:  http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindConflict:       http.StatusBadRequest,
	KindGateway:        http.StatusInternalServerError,
	KindInternal:       http.StatusInternalServerError,
}

// AppError represents an application error
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same reason code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Reason != "" && e.Reason == t.Reason
}

// With returns a copy of e that wraps cause
func (e *AppError) With(cause error) *AppError {
	cp := *e
	cp.Err = cause
	return &cp
}

// Withf returns a copy of e with a more specific message
func (e *AppError) Withf(format string, args ...interface{}) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// NewAppError creates a new AppError
func NewAppError(kind ErrorKind, reason, message string, err error) *AppError {
	code, ok := kindStatus[kind]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{
		Code:    code,
		Kind:    kind,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// Domain errors. Compare with errors.Is.
var (
	ErrInvalidInput        = NewAppError(KindValidation, "INVALID_INPUT", "Invalid input", nil)
	ErrMissingDestination  = NewAppError(KindValidation, "MISSING_DESTINATION", "Shipping address has no district", nil)
	ErrUnauthenticated     = NewAppError(KindAuthentication, "UNAUTHENTICATED", "Please login for access", nil)
	ErrForbidden           = NewAppError(KindAuthorization, "FORBIDDEN", "You are not allowed to perform this action", nil)
	ErrNotFound            = NewAppError(KindNotFound, "NOT_FOUND", "Resource not found", nil)
	ErrOrderNotFound       = NewAppError(KindNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	ErrDeliveryNotFound    = NewAppError(KindNotFound, "DELIVERY_NOT_FOUND", "Delivery not found for this order", nil)
	ErrCouponInvalid       = NewAppError(KindConflict, "COUPON_INVALID", "Coupon is invalid, used or expired", nil)
	ErrAlreadyPaid         = NewAppError(KindConflict, "ALREADY_PAID", "Order is already paid", nil)
	ErrWrongGateway        = NewAppError(KindConflict, "WRONG_GATEWAY", "Order uses a different payment method", nil)
	ErrPaymentNotConfirmed = NewAppError(KindConflict, "PAYMENT_NOT_CONFIRMED", "Payment has not succeeded", nil)
	ErrOrderNotCancellable = NewAppError(KindConflict, "ORDER_NOT_CANCELLABLE", "Only pending orders can be cancelled", nil)
	ErrIllegalTransition   = NewAppError(KindConflict, "ILLEGAL_TRANSITION", "Order status transition is not allowed", nil)
	ErrInsufficientPoints  = NewAppError(KindConflict, "INSUFFICIENT_POINTS", "Not enough points", nil)
	ErrAlreadyConfirmed    = NewAppError(KindConflict, "ALREADY_CONFIRMED", "Order receipt already confirmed", nil)
	ErrConcurrentUpdate    = NewAppError(KindConflict, "CONCURRENT_UPDATE", "Order was modified by another request, please retry", nil)
	ErrDeliveryExists      = NewAppError(KindConflict, "DELIVERY_EXISTS", "Delivery already exists for this order", nil)
	ErrDuplicate           = NewAppError(KindConflict, "DUPLICATE", "Resource already exists", nil)
	ErrRefundFailed        = NewAppError(KindGateway, "REFUND_FAILED", "Refund failed", nil)
	ErrGateway             = NewAppError(KindGateway, "GATEWAY_ERROR", "Payment gateway error", nil)
	ErrInternal            = NewAppError(KindInternal, "INTERNAL_ERROR", "Internal server error", nil)
)

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string, err error) *AppError {
	return NewAppError(KindValidation, ErrInvalidInput.Reason, message, err)
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(KindAuthentication, ErrUnauthenticated.Reason, message, err)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string, err error) *AppError {
	return NewAppError(KindAuthorization, ErrForbidden.Reason, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(KindNotFound, ErrNotFound.Reason, message, err)
}

// ConflictError creates a conflict error. Conflicts are reported as 400.
func ConflictError(message string, err error) *AppError {
	return NewAppError(KindConflict, ErrDuplicate.Reason, message, err)
}

// InternalError creates a 500 error around an unexpected failure
func InternalError(message string, err error) *AppError {
	return NewAppError(KindInternal, ErrInternal.Reason, message, err)
}

// GetAppError returns the AppError in err's chain, if any
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == KindNotFound
	}
	return false
}
