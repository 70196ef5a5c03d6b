package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/controllers"
	"github.com/Govind-619/SkinSphere/idempotency"
	"github.com/Govind-619/SkinSphere/payments"
	"github.com/Govind-619/SkinSphere/routes"
	"github.com/Govind-619/SkinSphere/utils"
)

const janitorInterval = 15 * time.Minute

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.SyncLogger()

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	if err := config.InitDB(cfg); err != nil {
		utils.LogError("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database:", err)
	}

	// Create bootstrap admin
	if err := controllers.CreateSampleAdmin(cfg); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	controllers.SetStripeGateway(newStripeGateway(cfg))
	if cfg.SMTPHost != "" {
		utils.SetMailer(utils.NewSMTPMailer(cfg))
	}

	store, closeStore := newIdempotencyStore(cfg)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go runJanitor(ctx, store)

	// Set up router
	router := routes.SetupRouter(routes.Options{IdempotencyStore: store})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Graceful shutdown failed: %v", err)
	}
}

func newStripeGateway(cfg *config.Config) payments.StripeGateway {
	if cfg.StripeSecretKey == "" {
		utils.LogInfo("STRIPE_SECRET_KEY not set, card payments are disabled")
		return payments.NewUnconfiguredStripe()
	}
	provider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
		APIKey:   cfg.StripeSecretKey,
		Currency: cfg.StripeCurrency,
		Logger: func(_ context.Context, event string, fields map[string]any) {
			utils.LogInfo("stripe %s %v", event, fields)
		},
	})
	if err != nil {
		utils.LogError("Failed to configure Stripe: %v", err)
		log.Fatal("Failed to configure Stripe:", err)
	}
	return provider
}

// newIdempotencyStore prefers Redis and falls back to the database table
func newIdempotencyStore(cfg *config.Config) (idempotency.Store, func()) {
	if cfg.RedisAddr == "" {
		return idempotency.NewGormStore(config.DB), func() {}
	}
	store := idempotency.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, "skinsphere:idem:")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		utils.LogError("Redis unavailable at %s, using database for idempotency keys: %v", cfg.RedisAddr, err)
		_ = store.Close()
		return idempotency.NewGormStore(config.DB), func() {}
	}
	utils.LogInfo("Idempotency keys stored in Redis at %s", cfg.RedisAddr)
	return store, func() { _ = store.Close() }
}

// runJanitor drops expired idempotency records and revoked tokens
func runJanitor(ctx context.Context, store idempotency.Store) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			at := time.Now()
			if n, err := store.CleanupExpired(ctx, at, 500); err != nil {
				utils.LogError("Idempotency cleanup failed: %v", err)
			} else if n > 0 {
				utils.LogDebug("Removed %d expired idempotency records", n)
			}
			if n, err := controllers.PurgeExpiredTokens(at); err != nil {
				utils.LogError("Token cleanup failed: %v", err)
			} else if n > 0 {
				utils.LogDebug("Removed %d expired revoked tokens", n)
			}
		}
	}
}
