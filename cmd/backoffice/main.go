package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/gymfit-backoffice/internal/api"
	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
	"github.com/DanielPopoola/gymfit-backoffice/internal/application/services"
	"github.com/DanielPopoola/gymfit-backoffice/internal/config"
	"github.com/DanielPopoola/gymfit-backoffice/internal/infrastructure/gateway"
	"github.com/DanielPopoola/gymfit-backoffice/internal/infrastructure/notification"
	"github.com/DanielPopoola/gymfit-backoffice/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/gymfit-backoffice/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/gymfit-backoffice/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting back office service",
		"port", cfg.Server.Port,
		"env", cfg.Primary.Env,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	discrepancyRepo := postgres.NewDiscrepancyRepository(db)
	userRepo := postgres.NewUserRepository(db)

	gatewayClient := gateway.NewGatewayClient(cfg.PaymentGateway)
	retryGatewayClient := gateway.NewRetryGatewayClient(gatewayClient, cfg.Retry)

	var channels []notification.Channel
	if cfg.SMTP.Enabled() {
		channels = append(channels, notification.NewEmailChannel(
			notification.NewSMTPSender(cfg.SMTP),
			userRepo,
			cfg.SMTP.AdminAddress,
		))
	}

	var kafkaChannel *notification.KafkaChannel
	if cfg.Kafka.Enabled {
		kafkaChannel = notification.NewKafkaChannel(notification.NewKafkaWriter(cfg.Kafka))
		channels = append(channels, kafkaChannel)
	}

	dispatcher := notification.NewDispatcher(cfg.Notification.Timeout, logger, channels...)

	orderService := services.NewOrderService(
		catalogRepo,
		retryGatewayClient,
		orderRepo,
		discrepancyRepo,
		dispatcher,
		application.SystemClock{},
		cfg.PaymentGateway.Currency,
		logger,
	)
	queryService := services.NewQueryService(orderRepo)
	discrepancyService := services.NewDiscrepancyService(discrepancyRepo, application.SystemClock{}, logger)

	h := handlers.NewHandlers(orderService, queryService, discrepancyService, db)

	doc, err := api.LoadSpec(ctx)
	if err != nil {
		logger.Error("failed to load openapi document", "error", err)
		os.Exit(1)
	}
	validateRequests, err := api.RequestValidator(doc, rest.WriteError)
	if err != nil {
		logger.Error("failed to build request validator", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)
	h.RegisterRoutes(mux, middleware.NewAuthenticator(cfg.Auth.JWTSecret))

	router := http.Handler(mux)

	handler := validateRequests(router)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.WriteTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	monitor := worker.NewDiscrepancyMonitor(
		discrepancyRepo,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go monitor.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// in-flight notifications finish before their writers close
	dispatcher.Wait()
	if kafkaChannel != nil {
		if err := kafkaChannel.Close(); err != nil {
			logger.Error("failed to close kafka writer", "error", err)
		}
	}

	logger.Info("server exited")
}
