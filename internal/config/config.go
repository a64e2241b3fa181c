package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Providers supported by data_source.provider.
const (
	ProviderYahoo    = "yahoo"
	ProviderVsTrader = "vstrader"
	ProviderAlpaca   = "alpaca"
	ProviderBinance  = "binance"
	ProviderMock     = "mock"
)

// Database drivers supported by database.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider  string        `yaml:"provider"`
		BaseURL   string        `yaml:"base_url"`
		APIKey    string        `yaml:"api_key"`
		APISecret string        `yaml:"api_secret"`
		Symbol    string        `yaml:"symbol"`
		Days      int           `yaml:"days"`
		CacheDir  string        `yaml:"cache_dir"`
		CacheTTL  time.Duration `yaml:"cache_ttl"`
	} `yaml:"data_source"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
		BacktestCron string `yaml:"backtest_cron"`
	} `yaml:"schedule"`
	Database struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"database"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is fine; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// credentialEnv maps a provider to its API key and secret variables.
var credentialEnv = map[string][2]string{
	ProviderVsTrader: {"VSTRADER_API_KEY", ""},
	ProviderAlpaca:   {"ALPACA_API_KEY", "ALPACA_API_SECRET"},
	ProviderBinance:  {"BINANCE_API_KEY", "BINANCE_SECRET_KEY"},
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"FIB_SYMBOL", &cfg.DataSource.Symbol},
		{"FIB_PROVIDER", &cfg.DataSource.Provider},
		{"VSTRADER_BASE_URL", &cfg.DataSource.BaseURL},
		{"CACHE_DIR", &cfg.DataSource.CacheDir},
		{"HTTPS_PROXY", &cfg.Proxy},
		{"CRON_ANALYSIS", &cfg.Schedule.AnalysisCron},
		{"CRON_BACKTEST", &cfg.Schedule.BacktestCron},
		{"DB_DRIVER", &cfg.Database.Driver},
		{"SQLITE_PATH", &cfg.Database.SQLitePath},
		{"DATABASE_URL", &cfg.Database.PostgresURL},
		{"LOG_LEVEL", &cfg.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}

	cfg.ApplyProviderCredentials()

	if v := os.Getenv("FIB_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.Days = n
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DataSource.CacheTTL = d
		}
	}
}

// ApplyProviderCredentials reads the API key and secret variables of the
// selected provider. Credentials are never read for other providers.
func (c *Config) ApplyProviderCredentials() {
	provider := c.DataSource.Provider
	if provider == "" && c.DataSource.BaseURL != "" {
		provider = ProviderVsTrader
	}
	keys, ok := credentialEnv[provider]
	if !ok {
		return
	}
	if v := os.Getenv(keys[0]); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv(keys[1]); keys[1] != "" && v != "" {
		c.DataSource.APISecret = v
	}
}

// OverrideProvider switches to provider after Load. Credentials loaded for a
// different provider are dropped before the new provider's are read.
func (c *Config) OverrideProvider(provider string) {
	if provider == "" || provider == c.DataSource.Provider {
		return
	}
	c.DataSource.Provider = provider
	c.DataSource.APIKey = ""
	c.DataSource.APISecret = ""
	c.ApplyProviderCredentials()
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
		if cfg.DataSource.BaseURL != "" {
			cfg.DataSource.Provider = ProviderVsTrader
		}
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "SPY"
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 1260 // ~5 years of trading days
	}
	if cfg.DataSource.CacheDir == "" {
		cfg.DataSource.CacheDir = "data/cache"
	}
	if cfg.DataSource.CacheTTL == 0 {
		cfg.DataSource.CacheTTL = 12 * time.Hour
	}
	if cfg.Schedule.AnalysisCron == "" {
		cfg.Schedule.AnalysisCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.BacktestCron == "" {
		cfg.Schedule.BacktestCron = "0 0 9 * * 6"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
		if cfg.Database.PostgresURL != "" {
			cfg.Database.Driver = DriverPostgres
		}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/fib_sentinel.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the settings every entry point needs.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock, ProviderBinance:
	case ProviderVsTrader:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", c.DataSource.Provider)
		}
	case ProviderAlpaca:
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and api_secret are required for provider %q", c.DataSource.Provider)
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.DataSource.Days <= 0 {
		return fmt.Errorf("data_source.days must be positive")
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverNone:
	case DriverPostgres:
		if c.Database.PostgresURL == "" {
			return fmt.Errorf("database.postgres_url is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}

// ValidateTelegram checks the settings needed by the notifier.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
