package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "carrental-backend/internal/api/http"
	"carrental-backend/internal/config"
	"carrental-backend/internal/gateway"
	"carrental-backend/internal/idempotency"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository/postgres"
	"carrental-backend/internal/security"
	"carrental-backend/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting car rental backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := postgres.Open(cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Idempotency store
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// The idempotency middleware fails open, so a missing redis only
		// disables retry deduplication.
		logger.Warn("Redis unavailable, idempotency keys will not be enforced", "addr", cfg.Redis.Addr, "error", err)
	}
	cancelPing()

	// Payment gateway and email
	razorpay, err := gateway.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	if err != nil {
		logger.Error("Failed to initialize payment gateway", "error", err)
		log.Fatalf("Failed to initialize payment gateway: %v", err)
	}
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	if cfg.SendGrid.APIKey == "" {
		logger.Warn("SendGrid api key not set, confirmation emails are disabled")
	}

	// Initialize Services
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.CarRepository,
		store.UserRepository,
		razorpay,
		emailSvc,
		service.BookingOptions{
			KeyID:      cfg.Razorpay.KeyID,
			KeySecret:  cfg.Razorpay.KeySecret,
			Currency:   cfg.Razorpay.Currency,
			PendingTTL: cfg.PendingBookingTTL(),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := httpapi.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go limiter.Run(ctx, 5*time.Minute)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:           authSvc,
		Bookings:       bookingSvc,
		Idempotency:    idempotency.NewRedisStore(rdb),
		IdempotencyTTL: cfg.IdempotencyTTL(),
		RateLimiter:    limiter,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", idempotency.HeaderKey, "X-Request-ID"},
		ExposedHeaders:   []string{idempotency.HeaderReplayed, "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
