package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"FibSentinel/internal/model"

	"go.uber.org/zap"
)

// CachedFetcher wraps a Fetcher with a JSON file cache per symbol and size.
type CachedFetcher struct {
	Inner  Fetcher
	Dir    string
	TTL    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

type cacheEntry struct {
	Symbol    string        `json:"symbol"`
	Source    string        `json:"source"`
	FetchedAt time.Time     `json:"fetched_at"`
	Bars      []model.OHLCV `json:"bars"`
}

// NewCachedFetcher creates the cache directory if needed.
func NewCachedFetcher(inner Fetcher, dir string, ttl time.Duration, logger *zap.Logger) (*CachedFetcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{Inner: inner, Dir: dir, TTL: ttl, logger: logger, now: time.Now}, nil
}

func (c *CachedFetcher) Name() string { return c.Inner.Name() + "+cache" }

func (c *CachedFetcher) path(symbol string, days int) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.ToUpper(symbol))
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%d.json", safe, days))
}

// FetchDailyBars serves a fresh cache entry, otherwise fetches and stores.
// A stale entry is returned when the upstream fetch fails.
func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	p := c.path(symbol, days)
	entry, readErr := c.read(p)
	if readErr == nil && c.now().Sub(entry.FetchedAt) < c.TTL {
		c.logger.Debug("cache hit", zap.String("symbol", symbol), zap.Int("bars", len(entry.Bars)))
		return entry.Bars, nil
	}

	bars, err := c.Inner.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		if readErr == nil {
			c.logger.Warn("upstream fetch failed, serving stale cache",
				zap.String("symbol", symbol),
				zap.Time("fetched_at", entry.FetchedAt),
				zap.Error(err))
			return entry.Bars, nil
		}
		return nil, err
	}

	if err := c.write(p, &cacheEntry{Symbol: symbol, Source: c.Inner.Name(), FetchedAt: c.now(), Bars: bars}); err != nil {
		c.logger.Warn("write cache failed", zap.String("path", p), zap.Error(err))
	}
	return bars, nil
}

func (c *CachedFetcher) read(p string) (*cacheEntry, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", p, err)
	}
	return &entry, nil
}

func (c *CachedFetcher) write(p string, entry *cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	// Concurrent writers each get their own temp file; the last rename wins.
	tmp, err := os.CreateTemp(c.Dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
