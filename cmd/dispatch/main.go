package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/angkut-id/dispatch/internal/pkg/config"
	"github.com/angkut-id/dispatch/internal/pkg/database"
	"github.com/angkut-id/dispatch/internal/pkg/health"
	"github.com/angkut-id/dispatch/internal/pkg/jobs"
	"github.com/angkut-id/dispatch/internal/pkg/logger"
	natspkg "github.com/angkut-id/dispatch/internal/pkg/nats"
	nsqpkg "github.com/angkut-id/dispatch/internal/pkg/nsq"
	"github.com/angkut-id/dispatch/internal/pkg/retry"
	"github.com/angkut-id/dispatch/services/dispatch/gateway"
	"github.com/angkut-id/dispatch/services/dispatch/handler"
	"github.com/angkut-id/dispatch/services/dispatch/repository"
	"github.com/angkut-id/dispatch/services/dispatch/usecase"
)

func main() {
	appName := "dispatch-service"
	configPath := "config/dispatch.env"
	configs := config.InitConfig(configPath)

	logger.Init(configs.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retrier := retry.NewWithDefaults()

	// Initialize PostgreSQL database connection
	var postgresClient *database.PostgresClient
	err := retrier.Execute(ctx, "connect postgres", func(ctx context.Context) error {
		var err error
		postgresClient, err = database.NewPostgresClient(configs.Database)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer postgresClient.Close()

	// Initialize Redis client
	var redisClient *database.RedisClient
	err = retrier.Execute(ctx, "connect redis", func(ctx context.Context) error {
		var err error
		redisClient, err = database.NewRedisClient(configs.Redis)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize NATS
	var natsClient *natspkg.Client
	err = retrier.Execute(ctx, "connect nats", func(ctx context.Context) error {
		var err error
		natsClient, err = natspkg.NewClient(configs.NATS.URL)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	// Initialize NSQ producer
	var nsqProducer *nsqpkg.Producer
	err = retrier.Execute(ctx, "connect nsq", func(ctx context.Context) error {
		var err error
		nsqProducer, err = nsqpkg.NewProducer(configs.NSQ.Address)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to connect to NSQ: %v", err)
	}
	defer nsqProducer.Stop()

	// Initialize repository
	dispatchRepo := repository.NewDispatchRepository(configs, postgresClient.GetDB(), redisClient)

	// Initialize gateway
	dispatchGW := gateway.NewDispatchGW(natsClient, nsqProducer)

	// Initialize job scheduler and usecase
	scheduler := jobs.NewScheduler(configs.Dispatch.WorkerCount, configs.Dispatch.AttemptDelay())
	dispatchUC := usecase.NewDispatchUC(configs, dispatchRepo, dispatchGW, scheduler)

	scheduler.Start(ctx, dispatchUC.HandleJob)
	defer scheduler.Stop()

	// Initialize handlers
	h := handler.NewHandler(configs, dispatchUC, natsClient)

	// Initialize NATS consumers
	if err := h.InitNATSConsumers(); err != nil {
		log.Fatalf("Failed to initialize NATS consumers: %v", err)
	}
	defer h.Close()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Register health endpoints
	health.RegisterHealthEndpoints(e, appName)

	// Register service routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port)
		logger.Info("starting server",
			logger.String("app", appName),
			logger.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start %s: %v", appName, err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", logger.String("app", appName))

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", logger.ErrorField(err))
	}
}
