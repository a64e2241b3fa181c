package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"FibSentinel/internal/model"

	"golang.org/x/time/rate"
)

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	return &VsTraderFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is one daily bar as served by vstrader, timestamp in unix seconds.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (b vsBar) toOHLCV() model.OHLCV {
	return model.OHLCV{
		Time:   time.Unix(b.Timestamp, 0).UTC(),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
}

// decodeVsBars accepts both a bare array and the {"bars": [...]} envelope.
func decodeVsBars(body []byte) ([]vsBar, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var bars []vsBar
		err := json.Unmarshal(trimmed, &bars)
		return bars, err
	}
	var envelope struct {
		Bars []vsBar `json:"bars"`
	}
	err := json.Unmarshal(trimmed, &envelope)
	return envelope.Bars, err
}

func (f *VsTraderFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("limit", strconv.Itoa(days))
	endpoint := f.BaseURL + "/api/v1/bars/daily?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vstrader %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("vstrader %s: read body: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vstrader %s: status %d, body: %s", symbol, resp.StatusCode, string(body))
	}

	raw, err := decodeVsBars(body)
	if err != nil {
		return nil, fmt.Errorf("vstrader %s: decode bars: %w", symbol, err)
	}
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		if b.Timestamp <= 0 {
			continue
		}
		bars = append(bars, b.toOHLCV())
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return trimBars(bars, days), nil
}
