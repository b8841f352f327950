package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dukapos/dukapos/internal/app"
	"github.com/dukapos/dukapos/internal/debts"
	"github.com/dukapos/dukapos/internal/messaging"
	"github.com/dukapos/dukapos/internal/platform/db"
	"github.com/dukapos/dukapos/internal/reports"
	"github.com/dukapos/dukapos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	reportsCache := reports.NewCache(redisClient, 5*time.Minute)

	debtsRepo := debts.NewRepository(pool)
	debtsService := debts.NewService(debtsRepo, reportsCache)

	ultramsg := messaging.NewUltraMsgClient(cfg.UltraMsgBaseURL, cfg.UltraMsgInstance, cfg.UltraMsgToken)
	messagesRepo := messaging.NewRepository(pool)
	messagingService := messaging.NewService(logger, ultramsg, messagesRepo, debtsService, cfg.ShopName)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	client, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	sweepTask, err := jobs.NewReminderSweepTask(time.Now().UTC())
	if err != nil {
		logger.Error("build reminder sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	overdueTask, err := jobs.NewOverdueScanTask(time.Time{})
	if err != nil {
		logger.Error("build overdue scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeDebtReminder, Handler: jobs.NewDebtReminderHandler(messagingService, logger)},
			{Type: jobs.TaskTypeReminderSweep, Handler: jobs.NewReminderSweepHandler(debtsService, client, logger)},
			{Type: jobs.TaskTypeOverdueScan, Handler: jobs.NewOverdueScanHandler(debtsService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.ReminderCronSpec, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.OverdueCronSpec, Task: overdueTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
