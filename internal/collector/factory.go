package collector

import (
	"fmt"

	"FibSentinel/internal/config"

	"go.uber.org/zap"
)

// NewFetcher builds the configured provider, wrapped in the on-disk cache
// unless the mock provider is selected or caching is disabled with cache_dir "off".
func NewFetcher(cfg *config.Config, logger *zap.Logger) (Fetcher, error) {
	ds := cfg.DataSource

	var f Fetcher
	switch ds.Provider {
	case config.ProviderYahoo:
		f = NewYahooFetcher(cfg.Proxy)
	case config.ProviderVsTrader:
		f = NewVsTraderFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
	case config.ProviderAlpaca:
		f = NewAlpacaFetcher(ds.APIKey, ds.APISecret)
	case config.ProviderBinance:
		f = NewBinanceFetcher(ds.APIKey, ds.APISecret, cfg.Proxy)
	case config.ProviderMock:
		return &MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", ds.Provider)
	}

	if ds.CacheDir == "" || ds.CacheDir == "off" {
		return f, nil
	}
	cf, err := NewCachedFetcher(f, ds.CacheDir, ds.CacheTTL, logger)
	if err != nil {
		return nil, err
	}
	return cf, nil
}
