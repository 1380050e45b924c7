package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/adire-living/backend-adire/internal/app"
	"github.com/adire-living/backend-adire/internal/common"
	"github.com/adire-living/backend-adire/internal/config"
	"github.com/adire-living/backend-adire/internal/lock"
	"github.com/adire-living/backend-adire/internal/notify"
	"github.com/adire-living/backend-adire/internal/obs"
	"github.com/adire-living/backend-adire/internal/order"
	"github.com/adire-living/backend-adire/internal/reminder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "adire"), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := app.NewPgxPool(ctx, cfg.DatabaseURL, "adire-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise database")
	}
	defer pool.Close()

	redisClient, err := app.NewRedisClient(ctx, cfg.RedisURL, false)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	taskRedis, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse task queue redis uri")
	}
	taskClient := asynq.NewClient(taskRedis)
	defer func() {
		if err := taskClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close task client")
		}
	}()

	var mail common.EmailSender
	if cfg.EmailEnabled {
		// Swap for a real SMTP sender when the provider account lands.
		mail = common.NopEmailSender{}
	}

	scanner := reminder.Scanner{
		Store:   order.PGStore{DB: pool},
		Enq:     notify.Enqueuer{Client: taskClient},
		Locker:  lock.Locker{R: redisClient},
		Rates:   cfg.RateTable(),
		Window:  cfg.ReminderWindow,
		LockTTL: cfg.ReminderLockTTL,
		Log:     logger,
	}

	mux := asynq.NewServeMux()
	notify.Worker{Mail: mail, Log: logger}.Register(mux)
	mux.HandleFunc(reminder.TaskScan, func(taskCtx context.Context, _ *asynq.Task) error {
		return scanner.Scan(taskCtx)
	})

	scheduler := asynq.NewScheduler(taskRedis, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(cfg.ReminderCronSpec, asynq.NewTask(reminder.TaskScan, nil)); err != nil {
		logger.Fatal().Err(err).Msg("register reminder scan schedule")
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}
	defer scheduler.Shutdown()

	srv := asynq.NewServer(taskRedis, asynq.Config{
		Concurrency: envInt("WORKER_CONCURRENCY", 10),
	})

	logger.Info().Str("cron", cfg.ReminderCronSpec).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
