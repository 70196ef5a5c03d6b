package config

import (
	"fmt"

	"github.com/Govind-619/SkinSphere/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the PostgreSQL connection and migrates the schema
func InitDB(cfg *Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.Env == "production" {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	return nil
}

// Migrate creates or updates every table the application uses
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Brand{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.Delivery{},
		&models.PointTransaction{},
		&models.BlacklistedToken{},
		&models.IdempotencyRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}
