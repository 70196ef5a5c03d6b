package utils_test

import (
	"testing"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/testutil"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPointsForAmount(t *testing.T) {
	testutil.SetupDB(t)

	assert.Equal(t, int64(10), utils.PointsForAmount(100000))
	assert.Equal(t, int64(9), utils.PointsForAmount(99999))
	assert.Equal(t, int64(0), utils.PointsForAmount(9999))
	assert.Equal(t, int64(0), utils.PointsForAmount(0))
	assert.Equal(t, int64(0), utils.PointsForAmount(-10000))

	config.App.PointsConversionRate = 1000
	assert.Equal(t, int64(100), utils.PointsForAmount(100000))

	config.App.PointsConversionRate = 0
	assert.Equal(t, int64(10), utils.PointsForAmount(100000), "falls back to the default rate")
}

func TestDebitPoints(t *testing.T) {
	db := testutil.SetupDB(t)
	user := testutil.CreateUser(t, db, models.RoleUser, 100)

	require.NoError(t, utils.DebitPoints(db, user.ID, 60))
	err := utils.DebitPoints(db, user.ID, 41)
	assert.ErrorIs(t, err, utils.ErrInsufficientPoints)

	balance, err := utils.PointsBalance(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	require.NoError(t, utils.DebitPoints(db, user.ID, 40))
	balance, err = utils.PointsBalance(db, user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestCreditPoints_UniqueReference(t *testing.T) {
	db := testutil.SetupDB(t)
	user := testutil.CreateUser(t, db, models.RoleUser, 5)

	balance, err := utils.CreditPoints(db, user.ID, 12, "delivered", nil, "order-1-delivered")
	require.NoError(t, err)
	assert.Equal(t, int64(17), balance)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := utils.CreditPoints(tx, user.ID, 12, "delivered", nil, "order-1-delivered")
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	balance, err = utils.PointsBalance(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), balance, "the rolled back credit leaves the balance alone")

	_, err = utils.CreditPoints(db, 9999, 1, "ghost", nil, "ghost-1")
	assert.True(t, utils.IsNotFoundError(err))
}
