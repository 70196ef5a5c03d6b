package controllers_test

import (
	"testing"

	"github.com/Govind-619/SkinSphere/controllers"
	"github.com/Govind-619/SkinSphere/routes"
	"github.com/Govind-619/SkinSphere/testutil"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	stripe *testutil.FakeStripe
	mail   *testutil.FakeMailer
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testutil.SetupDB(t)

	fake := testutil.NewFakeStripe()
	mail := &testutil.FakeMailer{}
	controllers.SetStripeGateway(fake)
	utils.SetMailer(mail)
	t.Cleanup(func() {
		controllers.SetStripeGateway(nil)
		utils.SetMailer(nil)
	})

	return &testAPI{
		router: routes.SetupRouter(routes.Options{}),
		db:     db,
		stripe: fake,
		mail:   mail,
	}
}
