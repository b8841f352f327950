package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dukapos/dukapos/internal/app"
	"github.com/dukapos/dukapos/internal/catalog"
	"github.com/dukapos/dukapos/internal/debts"
	"github.com/dukapos/dukapos/internal/expenses"
	"github.com/dukapos/dukapos/internal/inventory"
	"github.com/dukapos/dukapos/internal/messaging"
	"github.com/dukapos/dukapos/internal/platform/db"
	"github.com/dukapos/dukapos/internal/reports"
	"github.com/dukapos/dukapos/internal/sales"
	"github.com/dukapos/dukapos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportsCache := reports.NewCache(redisClient, 5*time.Minute)

	catalogRepo := catalog.NewRepository(pool)
	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, catalogRepo, reportsCache)
	catalogService := catalog.NewService(catalogRepo, inventoryService)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, catalogRepo, inventoryService, reportsCache)

	debtsRepo := debts.NewRepository(pool)
	debtsService := debts.NewService(debtsRepo, reportsCache)

	expensesRepo := expenses.NewRepository(pool)
	expensesService := expenses.NewService(expensesRepo, reportsCache)

	reportsRepo := reports.NewRepository(pool)
	reportsService := reports.NewService(reportsRepo, catalogRepo, inventoryService, reportsCache)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("asynq inspector close", slog.Any("error", err))
		}
	}()

	ultramsg := messaging.NewUltraMsgClient(cfg.UltraMsgBaseURL, cfg.UltraMsgInstance, cfg.UltraMsgToken)
	messagesRepo := messaging.NewRepository(pool)
	messagingService := messaging.NewService(logger, ultramsg, messagesRepo, debtsService, cfg.ShopName)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CatalogHandler:   catalog.NewHandler(logger, catalogService),
		InventoryHandler: inventory.NewHandler(logger, inventoryService),
		SalesHandler:     sales.NewHandler(logger, salesService),
		DebtsHandler:     debts.NewHandler(logger, debtsService),
		ReportsHandler:   reports.NewHandler(logger, reportsService),
		ExpensesHandler:  expenses.NewHandler(logger, expensesService),
		MessagingHandler: messaging.NewHandler(logger, messagingService),
		JobsHandler:      jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
