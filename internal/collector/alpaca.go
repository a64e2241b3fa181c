package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"FibSentinel/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// alpacaBarsClient is the subset of the Alpaca market data client we use.
type alpacaBarsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using Alpaca's historical bars endpoint.
type AlpacaFetcher struct {
	client alpacaBarsClient
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher backed by the Alpaca market data API.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		now: time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := f.now().Add(-20 * time.Minute) // free plans reject the most recent 15 minutes
	// ~252 trading days per 365 calendar days, plus slack for holidays
	start := end.AddDate(0, 0, -(days*365/252 + 10))

	bars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}

	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		out = append(out, model.OHLCV{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return trimBars(out, days), nil
}
