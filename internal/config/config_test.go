package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != ProviderYahoo || cfg.DataSource.Symbol != "SPY" {
		t.Errorf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if cfg.DataSource.Days != 1260 || cfg.DataSource.CacheTTL != 12*time.Hour {
		t.Errorf("unexpected history defaults: %+v", cfg.DataSource)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.SQLitePath == "" {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if err := cfg.ValidateTelegram(); err == nil {
		t.Error("expected telegram validation error without token")
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	p := writeConfig(t, `
data_source:
  provider: binance
  symbol: BTCUSDT
  days: 800
  cache_ttl: 30m
database:
  driver: none
telegram:
  bot_token: yaml-token
  chat_id: "42"
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("FIB_DAYS", "900")
	t.Setenv("BINANCE_API_KEY", "bn-key")
	t.Setenv("ALPACA_API_KEY", "alpaca-key")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != ProviderBinance || cfg.DataSource.Symbol != "BTCUSDT" {
		t.Errorf("yaml values not applied: %+v", cfg.DataSource)
	}
	if cfg.DataSource.APIKey != "bn-key" {
		t.Errorf("api key = %q, want the binance credential", cfg.DataSource.APIKey)
	}
	if cfg.DataSource.Days != 900 {
		t.Errorf("days = %d, want env override 900", cfg.DataSource.Days)
	}
	if cfg.DataSource.CacheTTL != 30*time.Minute {
		t.Errorf("cache ttl = %v", cfg.DataSource.CacheTTL)
	}
	if cfg.Telegram.BotToken != "env-token" || cfg.Telegram.ChatID != "42" {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		t.Errorf("unexpected telegram error: %v", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FIB_SYMBOL=QQQ\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIB_SYMBOL", "")
	os.Unsetenv("FIB_SYMBOL")

	cfg, err := Load(filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataSource.Symbol != "QQQ" {
		t.Errorf("symbol = %q, want QQQ from .env", cfg.DataSource.Symbol)
	}
}

func TestOverrideProvider(t *testing.T) {
	chdir(t, t.TempDir())
	p := writeConfig(t, `
data_source:
  provider: binance
  api_key: yaml-binance-key
  api_secret: yaml-binance-secret
`)
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_SECRET_KEY", "")
	t.Setenv("ALPACA_API_KEY", "alpaca-key")
	t.Setenv("ALPACA_API_SECRET", "alpaca-secret")

	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DataSource.APIKey != "yaml-binance-key" {
		t.Fatalf("api key = %q, alpaca variables must not apply to binance", cfg.DataSource.APIKey)
	}

	cfg.OverrideProvider(ProviderAlpaca)
	if cfg.DataSource.APIKey != "alpaca-key" || cfg.DataSource.APISecret != "alpaca-secret" {
		t.Errorf("credentials = %q/%q, want the alpaca variables", cfg.DataSource.APIKey, cfg.DataSource.APISecret)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}

	cfg.OverrideProvider(ProviderYahoo)
	if cfg.DataSource.APIKey != "" || cfg.DataSource.APISecret != "" {
		t.Errorf("credentials should be dropped for yahoo, got %q/%q", cfg.DataSource.APIKey, cfg.DataSource.APISecret)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, true},
		{"vstrader without url", func(c *Config) { c.DataSource.Provider = ProviderVsTrader }, true},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = ProviderAlpaca }, true},
		{"alpaca with keys", func(c *Config) {
			c.DataSource.Provider = ProviderAlpaca
			c.DataSource.APIKey = "k"
			c.DataSource.APISecret = "s"
		}, false},
		{"negative days", func(c *Config) { c.DataSource.Days = -1 }, true},
		{"postgres without url", func(c *Config) { c.Database.Driver = DriverPostgres }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	logger, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug should be disabled at info level")
	}

	cfg.Log.Level = "loud"
	if _, err := cfg.NewLogger(); err == nil {
		t.Error("expected error for unknown level")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
