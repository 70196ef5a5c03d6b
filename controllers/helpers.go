package controllers

import (
	"strconv"
	"time"

	"github.com/Govind-619/SkinSphere/middleware"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/payments"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
)

var (
	stripeGateway payments.StripeGateway = payments.NewUnconfiguredStripe()

	now = time.Now
)

// SetStripeGateway installs the gateway used for card payments and refunds
func SetStripeGateway(gw payments.StripeGateway) {
	if gw == nil {
		gw = payments.NewUnconfiguredStripe()
	}
	stripeGateway = gw
}

// authUser returns the authenticated user and principal, writing a 401 when absent
func authUser(c *gin.Context) (models.User, models.Principal, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.LogError("User not found in context")
		utils.RespondError(c, utils.ErrUnauthenticated)
		return models.User{}, models.Principal{}, false
	}
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		principal = models.Principal{ID: user.ID, Role: user.Role}
	}
	return user, principal, true
}

// uintParam parses a positive id path parameter, writing a 400 when malformed
func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.LogError("Invalid %s parameter: %q", name, c.Param(name))
		utils.RespondError(c, utils.BadRequestError("Invalid "+name, err))
		return 0, false
	}
	return uint(id), true
}

func bindError(err error) *utils.AppError {
	return utils.BadRequestError("Invalid input: "+err.Error(), err)
}
