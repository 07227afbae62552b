package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagedoor/api/routes"
	"stagedoor/internal/notifications"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/database"
	"stagedoor/pkg/logger"
	"stagedoor/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			PaymentRequests: cfg.RateLimit.PaymentRequests,
			WebhookRequests: cfg.RateLimit.WebhookRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			HealthRequests:  cfg.RateLimit.HealthRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	appRouter := routes.NewRouter(cfg, db, appLogger)
	engine := setupEngine(cfg, appLogger, rateLimiter)
	appRouter.SetupRoutes(engine)

	// Confirmation channels. Either sender may be absent; the dispatcher
	// reports the channel as failed and the booking still stands.
	dispatcher := buildDispatcher(cfg, appLogger)

	var retryProducer *notifications.RetryProducer
	var retryConsumer *notifications.RetryConsumer
	if cfg.Kafka.Enabled && dispatcher != nil {
		retryProducer, err = notifications.NewRetryProducer(cfg.Kafka, appLogger)
		if err != nil {
			appLogger.Error("Failed to create Kafka producer, confirmation retries disabled", slog.Any("error", err))
		} else {
			defer retryProducer.Close()

			retryConsumer, err = notifications.NewRetryConsumer(cfg.Kafka, dispatcher, appRouter.BookingRepository(), retryProducer, appLogger)
			if err != nil {
				appLogger.Error("Failed to create Kafka consumer, confirmation retries disabled", slog.Any("error", err))
			} else {
				retryConsumer.Start(context.Background())
				defer func() {
					if err := retryConsumer.Stop(); err != nil {
						appLogger.Error("Error stopping retry consumer", slog.Any("error", err))
					}
				}()
			}
		}
	}

	appRouter.WireNotifications(dispatcher, retryProducer)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
			slog.Bool("confirmation_retries", retryConsumer != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func buildDispatcher(cfg *config.Config, appLogger *logger.Logger) *notifications.Dispatcher {
	var emailSender notifications.EmailSender
	if sender, err := notifications.NewSMTPEmailSender(cfg.Email); err != nil {
		appLogger.Warn("Email sender not configured", slog.Any("error", err))
	} else {
		emailSender = sender
	}

	var smsSender notifications.SMSSender
	if sender, err := notifications.NewTwilioSMSSender(cfg.SMS); err != nil {
		appLogger.Warn("SMS sender not configured", slog.Any("error", err))
	} else {
		smsSender = sender
	}

	if emailSender == nil && smsSender == nil {
		appLogger.Warn("No confirmation channels configured, bookings will not be notified")
		return nil
	}

	return notifications.NewDispatcher(emailSender, smsSender, cfg.PublicBaseURL, appLogger)
}

func setupEngine(cfg *config.Config, appLogger *logger.Logger, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()

	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
