package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagepass/api/routes"
	"stagepass/internal/auth"
	"stagepass/internal/notifications"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	} else {
		appLogger.Info("Loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	appRouter := routes.NewRouter(cfg, db)
	engine := setupEngine(appRouter, appLogger)

	// Booking confirmations ride Kafka when a broker is configured;
	// without one, commits still succeed and nothing is emailed.
	if cfg.Kafka.Enabled {
		stopNotifications := startNotifications(cfg, db, appRouter, appLogger)
		defer stopNotifications()
	} else {
		appLogger.Info("Kafka disabled, booking confirmations will not be sent")
	}

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
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
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

func setupEngine(appRouter *routes.Router, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRouter.SetupRoutes(engine)
	return engine
}

// startNotifications wires the confirmation pipeline: the producer hangs
// off the booking service and the consumer turns confirmations into
// emails. Returns a stop function for shutdown.
func startNotifications(cfg *config.Config, db *database.DB, appRouter *routes.Router, appLogger *logger.Logger) func() {
	producer, err := notifications.NewProducer(cfg)
	if err != nil {
		appLogger.Error("Failed to start confirmation producer", slog.Any("error", err))
		return func() {}
	}
	appRouter.BookingsService().SetNotificationProducer(producer)

	var sender notifications.EmailSender
	if cfg.Email.SMTPHost != "" {
		sender = notifications.NewSMTPSender(cfg.Email)
	} else {
		appLogger.Info("SMTP not configured, confirmations will be logged instead of emailed")
		sender = notifications.NewLogSender()
	}

	recipients := auth.NewRepository(db.GetPostgreSQL())
	consumer, err := notifications.NewConsumer(cfg, sender, recipients)
	if err != nil {
		appLogger.Error("Failed to start confirmation consumer", slog.Any("error", err))
		return func() {
			if cerr := producer.Close(); cerr != nil {
				appLogger.Error("Error closing confirmation producer", slog.Any("error", cerr))
			}
		}
	}
	consumer.Start()
	appLogger.Info("Booking confirmation pipeline started",
		slog.String("topic", cfg.Kafka.BookingTopic),
		slog.String("group", cfg.Kafka.ConsumerGroup),
	)

	return func() {
		if err := consumer.Stop(); err != nil {
			appLogger.Error("Error stopping confirmation consumer", slog.Any("error", err))
		}
		if err := producer.Close(); err != nil {
			appLogger.Error("Error closing confirmation producer", slog.Any("error", err))
		}
	}
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
