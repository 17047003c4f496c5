package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/finsight-bo/finsight/internal/app"
	jobmetrics "github.com/finsight-bo/finsight/internal/jobs"
	"github.com/finsight-bo/finsight/internal/metrics"
	"github.com/finsight-bo/finsight/internal/orders"
	platformcache "github.com/finsight-bo/finsight/internal/platform/cache"
	"github.com/finsight-bo/finsight/internal/platform/db"
	"github.com/finsight-bo/finsight/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := platformcache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	engine, err := metrics.NewEngine(cfg.MetricsConfig())
	if err != nil {
		logger.Error("init metrics engine", slog.Any("error", err))
		os.Exit(1)
	}
	cache := metrics.NewCache(redisClient, cfg.CacheTTL)
	repo := orders.NewRepository(pool)
	service := metrics.NewService(repo, engine, cache, logger)

	warmupJob := jobs.NewMetricsWarmupJob(service, logger, jobmetrics.NewMetrics(nil), cfg.WarmupWindowDays)

	warmupTask, err := jobs.NewMetricsWarmupTask(jobs.MetricsWarmupPayload{Compare: true})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMetricsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
