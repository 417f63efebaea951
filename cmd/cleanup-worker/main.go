package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"

	"github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/menu"
	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	"github.com/davidmorenoc/desayunos-backend/internal/worker"
	"github.com/davidmorenoc/desayunos-backend/pkg/config"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/metrics"
	"github.com/davidmorenoc/desayunos-backend/pkg/redis"
	"github.com/davidmorenoc/desayunos-backend/pkg/scheduler"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cleanup-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cleanup-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := connectRedis(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	store, err := sharedstore.NewRedisStore(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shared store", err)
		os.Exit(1)
	}

	engine, err := pricing.NewEngine(menu.Default(), nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing engine", err)
		os.Exit(1)
	}

	groupService, err := groups.NewService(groups.ServiceParams{
		Store:     store,
		Engine:    engine,
		Scheduler: scheduler.NewKeyed(scheduler.RealClock()),
		Logger:    logg,
		Config:    cfg.Groups,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create group service", err)
		os.Exit(1)
	}

	cleanupJob, err := worker.NewGroupCleanupJob(groupService, logg, cfg.Groups.CleanupTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cleanup job", err)
		os.Exit(1)
	}

	lock, err := worker.NewRedisLock(redisClient, redisClient.LockKey(lockName(cfg.App.Env)), cfg.Cleanup.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := worker.NewService(worker.ServiceParams{
		Logger:   logg,
		Registry: worker.NewRegistry(cleanupJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cleanup.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cleanup worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cleanup worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cleanup worker shutting down gracefully")
}

func lockName(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("cleanup-worker:%s", env)
}

func connectRedis(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	var client *redis.Client
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Warn(ctx, "redis not ready, retrying")
			return retry.RetryableError(err)
		}
		client = c
		return nil
	})
	return client, err
}
