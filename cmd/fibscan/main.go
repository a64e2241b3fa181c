// Command fibscan runs a one-off Fibonacci analysis or Golden Zone backtest
// and prints the result to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/config"
	"FibSentinel/internal/model"
	"FibSentinel/internal/strategy"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	ticker     string
	current    float64
	backtest   bool
	asJSON     bool
	provider   string
	days       int
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("fibscan", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.configPath, "config", "configs/config.yaml", "config file")
	fs.StringVar(&o.ticker, "ticker", "", "symbol to analyze (defaults to data_source.symbol)")
	fs.Float64Var(&o.current, "current", 0, "price to classify (defaults to the latest close)")
	fs.BoolVar(&o.backtest, "backtest", false, "run the Golden Zone backtest instead of a snapshot analysis")
	fs.BoolVar(&o.asJSON, "json", false, "print JSON")
	fs.StringVar(&o.provider, "provider", "", "override data_source.provider")
	fs.IntVar(&o.days, "days", 0, "override data_source.days")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.current < 0 {
		return nil, errors.New("-current must not be negative")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fibscan:", err)
		os.Exit(1)
	}
}

// loadConfig applies the command line overrides on top of the loaded config.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.OverrideProvider(opts.provider)
	if opts.days > 0 {
		cfg.DataSource.Days = opts.days
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fetcher, err := collector.NewFetcher(cfg, logger)
	if err != nil {
		return err
	}
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Days, logger)

	symbol := cfg.DataSource.Symbol
	if opts.ticker != "" {
		symbol = strategy.NormalizeTicker(opts.ticker)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	series, err := col.CollectSymbol(ctx, symbol)
	if err != nil {
		return err
	}
	logger.Debug("history loaded", zap.String("symbol", symbol), zap.Int("bars", len(series.Bars)))

	if opts.backtest {
		res, err := strategy.Backtest(symbol, series.Bars)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return writeJSON(out, res)
		}
		printBacktest(out, res)
		return nil
	}

	price := opts.current
	if price == 0 {
		price = series.LastClose()
	}
	res, err := strategy.Analyze(symbol, series.Bars, price)
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(out, res)
	}
	printAnalysis(out, res)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = out.Write(pretty.Pretty(raw))
	return err
}

func printAnalysis(out io.Writer, res *model.AnalysisResult) {
	fmt.Fprintf(out, "%s  %s  (%d bars)\n", res.Ticker, res.Trend, res.BarCount)
	fmt.Fprintf(out, "swing high  %10.2f  %s\n", res.SwingHigh.Price, res.SwingHigh.Date.Format(time.DateOnly))
	fmt.Fprintf(out, "swing low   %10.2f  %s\n", res.SwingLow.Price, res.SwingLow.Date.Format(time.DateOnly))
	fmt.Fprintf(out, "range       %10.2f\n\n", res.Range)
	for _, l := range res.Levels {
		marker := ""
		if l.IsGoldenZone {
			marker = "  <- golden zone"
		}
		fmt.Fprintf(out, "%5.1f%%  %10.2f  %-11s%s\n", l.Ratio*100, l.Price, l.Category, marker)
	}
	fmt.Fprintf(out, "\nprice %.2f -> %s\n%s\n", res.CurrentPrice, res.Signal, res.Reason)
}

func printBacktest(out io.Writer, res *model.BacktestResult) {
	fmt.Fprintf(out, "%s  %d bars  %d touches  %d success / %d fail  win rate %.1f%%\n\n",
		res.Ticker, res.TotalBars, len(res.Touches), res.Successes, res.Failures, res.WinRate)
	for _, t := range res.Touches {
		fmt.Fprintf(out, "%s  %-9s  touch %10.2f  golden %10.2f  after %10.2f  %+7.2f%%  %s\n",
			t.Date.Format(time.DateOnly), t.Trend, t.TouchPrice, t.GoldenLevelPrice,
			t.PriceAfterHorizon, t.PercentChange, t.Outcome)
	}
	fmt.Fprintf(out, "\n%s\n", res.Summary)
}
