package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"FibSentinel/internal/model"

	"github.com/adshao/go-binance/v2/futures"
	"golang.org/x/time/rate"
)

// binanceMaxKlines is the per-request cap of the futures klines endpoint.
const binanceMaxKlines = 1500

// BinanceFetcher implements Fetcher with Binance USDT-M futures daily klines.
type BinanceFetcher struct {
	client      *futures.Client
	rateLimiter *rate.Limiter
}

// NewBinanceFetcher creates a fetcher; keys may be empty for public market data.
func NewBinanceFetcher(apiKey, secretKey, proxyURL string) *BinanceFetcher {
	client := futures.NewClient(apiKey, secretKey)
	client.HTTPClient = newHTTPClient(proxyURL)
	return &BinanceFetcher{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	limit := days
	if limit <= 0 || limit > binanceMaxKlines {
		limit = binanceMaxKlines
	}

	klines, err := f.client.NewKlinesService().
		Symbol(symbol).
		Interval("1d").
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance klines: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(klines))
	for _, k := range klines {
		bar, err := klineToBar(k)
		if err != nil {
			return nil, fmt.Errorf("binance kline %d: %w", k.OpenTime, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func klineToBar(k *futures.Kline) (model.OHLCV, error) {
	vals := make([]float64, 5)
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.OHLCV{}, err
		}
		vals[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
