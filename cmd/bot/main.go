package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/config"
	"FibSentinel/internal/notifier"
	"FibSentinel/internal/recorder"
	"FibSentinel/internal/scheduler"

	"go.uber.org/zap"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}
	if err := cfg.ValidateTelegram(); err != nil {
		logger.Fatal("config validation", zap.Error(err))
	}
	logger.Info("FibSentinel starting", zap.String("symbol", cfg.DataSource.Symbol))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	fetcher, err := collector.NewFetcher(cfg, logger)
	if err != nil {
		logger.Fatal("init fetcher", zap.Error(err))
	}
	logger.Info("data source ready", zap.String("source", fetcher.Name()))

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Days, logger)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)

	// Init recorder
	rec := openRecorder(ctx, cfg, logger)
	defer rec.Close()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, tn, rec, logger)
	if err := sched.RegisterAll(cfg.Schedule.AnalysisCron, cfg.Schedule.BacktestCron); err != nil {
		logger.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	logger.Info("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing analysis now")
		go sched.RunAnalysisNow()
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping")
	cancel()
}

// openRecorder falls back to the no-op recorder when the database cannot be opened.
func openRecorder(ctx context.Context, cfg *config.Config, logger *zap.Logger) recorder.Recorder {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresURL, recorder.DefaultPoolConfig(), logger)
		if err != nil {
			logger.Warn("init postgres recorder failed, using noop", zap.Error(err))
			return recorder.NewNoopRecorder()
		}
		return pr
	case config.DriverSQLite:
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			return recorder.NewNoopRecorder()
		}
		return sr
	default:
		return recorder.NewNoopRecorder()
	}
}
