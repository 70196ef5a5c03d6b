package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var DB *gorm.DB

// App is the configuration loaded at startup. Tests replace it with Defaults().
var App = Defaults()

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	Port    string
	Env     string
	BaseURL string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration

	StripeSecretKey string
	StripeCurrency  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	RedisAddr     string
	RedisPassword string

	// Bootstrap administrator created at startup when both are set
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Order money settings, all in VND
	PointsConversionRate int64
	CouponValidity       time.Duration
	CatalogPricing       bool
	DeliveryFees         DeliveryFeeTable
}

// Defaults returns a configuration usable without any environment
func Defaults() *Config {
	return &Config{
		DBHost:               "localhost",
		DBPort:               "5432",
		DBUser:               "postgres",
		DBName:               "skinsphere",
		DBSSLMode:            "disable",
		Port:                 "8080",
		Env:                  "development",
		BaseURL:              "http://localhost:8080",
		AccessTokenTTL:       15 * time.Minute,
		StripeCurrency:       "vnd",
		SMTPPort:             587,
		PointsConversionRate: 10000,
		CouponValidity:       30 * 24 * time.Hour,
		CatalogPricing:       true,
		DeliveryFees:         DefaultDeliveryFees(),
	}
}

// LoadConfig loads configuration from the environment. A missing .env file is not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.DBHost = envOr("DB_HOST", cfg.DBHost)
	cfg.DBPort = envOr("DB_PORT", cfg.DBPort)
	cfg.DBUser = envOr("DB_USER", cfg.DBUser)
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = envOr("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = envOr("DB_SSLMODE", cfg.DBSSLMode)
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.Env = envOr("ENV", cfg.Env)
	cfg.BaseURL = strings.TrimRight(envOr("BASE_URL", cfg.BaseURL), "/")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.JWTRefreshSecret = envOr("JWT_REFRESH_SECRET", cfg.JWTSecret)
	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.StripeCurrency = strings.ToLower(envOr("STRIPE_CURRENCY", cfg.StripeCurrency))
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = envOr("SMTP_FROM", cfg.SMTPUsername)
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.AdminEmail = strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminName = envOr("ADMIN_NAME", "Administrator")

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.AccessTokenTTL, err = envDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = envInt("SMTP_PORT", cfg.SMTPPort); err != nil {
		return nil, err
	}
	rate, err := envInt("POINTS_CONVERSION_RATE", int(cfg.PointsConversionRate))
	if err != nil {
		return nil, err
	}
	if rate <= 0 {
		return nil, fmt.Errorf("POINTS_CONVERSION_RATE must be positive")
	}
	cfg.PointsConversionRate = int64(rate)

	days, err := envInt("COUPON_VALIDITY_DAYS", int(cfg.CouponValidity/(24*time.Hour)))
	if err != nil {
		return nil, err
	}
	cfg.CouponValidity = time.Duration(days) * 24 * time.Hour

	if v := os.Getenv("ORDER_CATALOG_PRICING"); v != "" {
		if cfg.CatalogPricing, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid ORDER_CATALOG_PRICING: %v", err)
		}
	}

	if v := os.Getenv("DELIVERY_FEES_JSON"); v != "" {
		var table DeliveryFeeTable
		if err := json.Unmarshal([]byte(v), &table); err != nil {
			return nil, fmt.Errorf("invalid DELIVERY_FEES_JSON: %v", err)
		}
		if table.Default <= 0 {
			table.Default = cfg.DeliveryFees.Default
		}
		cfg.DeliveryFees = table
	}

	App = cfg
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}
