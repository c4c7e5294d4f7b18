package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/registration-service/config"
	"github.com/Eursukkul/registration-service/internal/handler"
	"github.com/Eursukkul/registration-service/internal/middleware"
	"github.com/Eursukkul/registration-service/internal/policy"
	"github.com/Eursukkul/registration-service/internal/repository"
	"github.com/Eursukkul/registration-service/internal/service"
	"github.com/Eursukkul/registration-service/pkg/database"
	"github.com/Eursukkul/registration-service/pkg/logger"
	"github.com/Eursukkul/registration-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Development)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Store
	var repo repository.RegistrationRepository
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory store; registrations are lost on restart")
		repo = repository.NewMemoryRegistrationRepository(nil)
	default:
		db, err := database.NewPostgresDB(cfg.DSN(), log)
		if err != nil {
			log.Fatal("database", zap.Error(err))
		}
		defer database.Close(db)
		repo = repository.NewRegistrationRepository(db)
	}

	opts := []service.Option{service.WithLogger(log.Named("registrations"))}

	// RabbitMQ publisher: lifecycle messages for downstream services
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
	} else {
		log.Info("RABBITMQ_URL not set, lifecycle publishing disabled")
	}

	registrationSvc := service.NewRegistrationService(repo, policy.New(cfg.AdminRole), opts...)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "registration-service"})
	})

	h := handler.NewRegistrationHandler(registrationSvc)
	h.RegisterRoutes(e.Group("/registrations", middleware.Identity()))
	h.RegisterRoutes(e.Group("/api/v1/registrations", middleware.Identity()))

	go func() {
		log.Info("Registration Service starting", zap.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
