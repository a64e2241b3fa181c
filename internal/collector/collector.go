package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"FibSentinel/internal/model"

	"go.uber.org/zap"
)

// Collector fetches price history and normalizes it into a valid PriceSeries.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Days    int
	logger  *zap.Logger
}

// NewCollector creates a new Collector for the default symbol.
func NewCollector(fetcher Fetcher, symbol string, days int, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Symbol: symbol, Days: days, logger: logger}
}

// Collect fetches the configured symbol.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	return c.CollectSymbol(ctx, c.Symbol)
}

// CollectSymbol fetches and normalizes the daily history of symbol.
func (c *Collector) CollectSymbol(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	raw, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}

	bars, dropped := NormalizeBars(raw)
	if dropped > 0 {
		c.logger.Warn("dropped malformed bars",
			zap.String("symbol", symbol),
			zap.Int("dropped", dropped),
			zap.Int("kept", len(bars)))
	}

	series := &model.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		Source:    c.Fetcher.Name(),
		FetchedAt: time.Now(),
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	c.logger.Info("collected price history",
		zap.String("symbol", symbol),
		zap.String("source", series.Source),
		zap.Int("bars", len(bars)))
	return series, nil
}

// NormalizeBars sorts bars oldest first, keeps the last bar of each calendar day
// and drops bars with non-positive or inconsistent prices.
func NormalizeBars(raw []model.OHLCV) ([]model.OHLCV, int) {
	sorted := make([]model.OHLCV, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := make([]model.OHLCV, 0, len(sorted))
	dropped := 0
	for _, b := range sorted {
		if !b.Consistent() {
			dropped++
			continue
		}
		if n := len(out); n > 0 && out[n-1].Day().Equal(b.Day()) {
			out[n-1] = b
			dropped++
			continue
		}
		out = append(out, b)
	}
	return out, dropped
}
