package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keepwarm/config"
	"keepwarm/internal/interval"
	"keepwarm/internal/keepalive"
	"keepwarm/internal/metrics"
	"keepwarm/internal/pinger"
	"keepwarm/internal/retry"
	"keepwarm/internal/target"
	"keepwarm/pkg/logger"
)

// eventBufferSize is the metrics channel capacity. The loop pings one target
// at a time, so the collector never falls anywhere near this far behind.
const eventBufferSize = 100

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log, closeLog := logger.New(cfg.Logging.Level, true, cfg.Environment, cfg.Logging.File)
	defer func() {
		_ = closeLog()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := initializePool(cfg, log)
	if err != nil {
		log.Error("Failed to initialize targets", slog.Any("err", err))
		os.Exit(1)
	}

	loop, collector, err := buildLoop(cfg, pool, log)
	if err != nil {
		log.Error("Failed to build keepalive loop", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Starting keepwarm",
		slog.Int("targets", pool.Size()),
		slog.String("min_interval", cfg.Schedule.MinInterval),
		slog.String("max_interval", cfg.Schedule.MaxInterval),
		slog.String("log_file", cfg.Logging.File))

	collector.Start(ctx)
	loop.Run(ctx)

	// Wait for the collector to drain so the summary misses nothing.
	<-collector.Done()
	logSummary(log, collector.Snapshot())
}

func logSummary(log *slog.Logger, snapshot metrics.Snapshot) {
	log.Info("Shutting down gracefully...",
		slog.Duration("uptime", snapshot.Uptime),
		slog.Int64("delivered", snapshot.TotalDelivered),
		slog.Int64("failures", snapshot.TotalFailures),
		slog.Int64("abandoned_cycles", snapshot.AbandonedCycles),
		slog.Int("worst_streak", snapshot.WorstStreak),
		slog.Any("targets", snapshot.Targets))
}

func initializePool(cfg *config.Config, log *slog.Logger) (*target.Pool, error) {
	var targets []*target.Target

	for _, tc := range cfg.Targets {
		t, err := target.New(tc.URL)

		if err != nil {
			log.Error("Failed to parse target URL",
				slog.String("url", tc.URL),
				slog.String("error", err.Error()))
			continue
		}

		targets = append(targets, t)
	}

	if len(targets) == 0 {
		return nil, os.ErrInvalid
	}

	return target.NewPool(targets, cfg.Request.QueryKeys), nil
}

func buildLoop(cfg *config.Config, pool *target.Pool, log *slog.Logger) (*keepalive.Loop, *metrics.Collector, error) {
	timeout, err := time.ParseDuration(cfg.Delivery.Timeout)
	if err != nil {
		return nil, nil, err
	}

	baseBackoff, err := time.ParseDuration(cfg.Delivery.BaseBackoff)
	if err != nil {
		return nil, nil, err
	}

	minInterval, err := time.ParseDuration(cfg.Schedule.MinInterval)
	if err != nil {
		return nil, nil, err
	}

	maxInterval, err := time.ParseDuration(cfg.Schedule.MaxInterval)
	if err != nil {
		return nil, nil, err
	}

	collector := metrics.NewCollector(eventBufferSize, log)

	loop := keepalive.NewLoop(
		pool,
		pinger.New(timeout, cfg.Request.UserAgents),
		retry.NewPolicy(cfg.Delivery.MaxRetries, baseBackoff),
		interval.NewPlanner(minInterval, maxInterval, cfg.Schedule.Jitter),
		collector,
		log,
	)

	return loop, collector, nil
}
