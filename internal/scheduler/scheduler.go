package scheduler

import (
	"context"
	"fmt"
	"strings"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/model"
	"FibSentinel/internal/notifier"
	"FibSentinel/internal/recorder"
	"FibSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// maxListedTouches caps the touch list in backtest messages.
const maxListedTouches = 8

const helpText = "Available commands:\n" +
	"• /analyze [TICKER] - Fibonacci analysis of the full history\n" +
	"• /levels [TICKER] - retracement levels only\n" +
	"• /backtest [TICKER] - Golden Zone touch history\n" +
	"• /help - this message"

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Recorder  recorder.Recorder
	Ctx       context.Context

	logger *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Sender, rec recorder.Recorder, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
		logger:    logger.Named("scheduler"),
	}
}

// RegisterAll registers the analysis and backtest tasks.
func (s *Scheduler) RegisterAll(analysisCron, backtestCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("stopped")
}

// RunAnalysisNow executes the analysis task immediately (RUN_ON_START).
func (s *Scheduler) RunAnalysisNow() {
	s.analysisTask()
}

// AnalyzeSymbol fetches symbol and analyzes it at its latest close.
func (s *Scheduler) AnalyzeSymbol(ctx context.Context, symbol string) (*model.AnalysisResult, error) {
	series, err := s.Collector.CollectSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	res, err := strategy.Analyze(symbol, series.Bars, series.LastClose())
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordAnalysis(ctx, res); err != nil {
		s.logger.Error("record analysis", zap.String("symbol", symbol), zap.Error(err))
	}
	s.logger.Info("analysis complete",
		zap.String("symbol", res.Ticker),
		zap.String("trend", string(res.Trend)),
		zap.String("signal", string(res.Signal)),
		zap.Float64("price", res.CurrentPrice))
	return res, nil
}

// BacktestSymbol fetches symbol and replays the Golden Zone touch rule over it.
func (s *Scheduler) BacktestSymbol(ctx context.Context, symbol string) (*model.BacktestResult, error) {
	series, err := s.Collector.CollectSymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	res, err := strategy.Backtest(symbol, series.Bars)
	if err != nil {
		return nil, err
	}
	runID, err := s.Recorder.RecordBacktest(ctx, res)
	if err != nil {
		s.logger.Error("record backtest", zap.String("symbol", symbol), zap.Error(err))
	}
	s.logger.Info("backtest complete",
		zap.String("symbol", res.Ticker),
		zap.String("run_id", runID),
		zap.Int("touches", len(res.Touches)),
		zap.Float64("win_rate", res.WinRate))
	return res, nil
}

func (s *Scheduler) analysisTask() {
	s.logger.Info("running analysis task", zap.String("symbol", s.Collector.Symbol))
	res, err := s.AnalyzeSymbol(s.Ctx, s.Collector.Symbol)
	if err != nil {
		s.logger.Error("analysis task", zap.Error(err))
		s.trySend(notifier.FormatError("Scheduled analysis", err))
		return
	}
	s.trySend(notifier.FormatAnalysis(res))
}

func (s *Scheduler) backtestTask() {
	s.logger.Info("running backtest task", zap.String("symbol", s.Collector.Symbol))
	res, err := s.BacktestSymbol(s.Ctx, s.Collector.Symbol)
	if err != nil {
		s.logger.Error("backtest task", zap.Error(err))
		s.trySend(notifier.FormatError("Scheduled backtest", err))
		return
	}
	s.trySend(notifier.FormatBacktest(res, maxListedTouches))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Telegram appends @botname to commands in groups.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	symbol := s.Collector.Symbol
	if len(fields) > 1 {
		symbol = strategy.NormalizeTicker(fields[1])
	}

	switch name {
	case "/analyze":
		res, err := s.AnalyzeSymbol(ctx, symbol)
		if err != nil {
			return notifier.FormatError("Analysis", err)
		}
		return notifier.FormatAnalysis(res)
	case "/levels":
		res, err := s.AnalyzeSymbol(ctx, symbol)
		if err != nil {
			return notifier.FormatError("Analysis", err)
		}
		return notifier.FormatLevels(res)
	case "/backtest":
		res, err := s.BacktestSymbol(ctx, symbol)
		if err != nil {
			return notifier.FormatError("Backtest", err)
		}
		return notifier.FormatBacktest(res, maxListedTouches)
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
