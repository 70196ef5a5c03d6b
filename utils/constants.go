package utils

import "time"

// Application constants
const (
	AppName = "SkinSphere"

	DefaultPort = "8080"

	// Page size used when the client does not ask for one
	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100

	MinPasswordLength = 8
	MaxPasswordLength = 64

	MinNameLength = 2
	MaxNameLength = 50

	// Per-line bounds on checkout; totals above them cannot be charged
	MaxItemQuantity = 10000
	MaxUnitPrice    = 1_000_000_000_000

	// Default loyalty conversion: one point per 10,000 VND of a delivered order
	DefaultPointsConversionRate = 10000

	DefaultCouponValidity = 30 * 24 * time.Hour

	// Orders reach the customer this long after a delivery record is created
	DeliveryLeadTime = 3 * 24 * time.Hour

	AccessTokenTTL       = 15 * time.Minute
	RefreshTokenTTL      = 7 * 24 * time.Hour
	VerificationTokenTTL = 24 * time.Hour

	RefreshCookieName = "refresh_token"
)

// Context keys set by the auth middleware
const (
	ContextUserKey      = "user"
	ContextPrincipalKey = "principal"
	ContextRequestIDKey = "RequestID"
)

// Success messages
const (
	MsgLoginSuccess    = "Login successful"
	MsgLogoutSuccess   = "Logout successful"
	MsgRegisterSuccess = "Registration successful, please verify your email"
	MsgCreateSuccess   = "Created successfully"
	MsgUpdateSuccess   = "Updated successfully"
	MsgDeleteSuccess   = "Deleted successfully"
)
