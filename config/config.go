// Package config loads the immutable runtime configuration: built-in
// defaults, an optional YAML file, then environment overrides.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"signaldesk/internal/portfolio"
	"signaldesk/internal/strategy"
)

// DefaultUniverse is the instrument list scanned when none is configured.
var DefaultUniverse = []string{
	"SOLUSDT", "BTCUSDT", "ETHUSDT", "BNBUSDT", "XRPUSDT", "ADAUSDT", "DOGEUSDT", "SHIBUSDT",
	"DOTUSDT", "ATOMUSDT", "LTCUSDT", "AVAXUSDT", "LINKUSDT", "TRXUSDT", "NEARUSDT", "APTUSDT",
	"BCHUSDT", "FILUSDT", "MATICUSDT", "ETCUSDT", "XLMUSDT", "VETUSDT", "THETAUSDT", "RUNEUSDT",
	"FTMUSDT", "SANDUSDT", "MANAUSDT", "AAVEUSDT", "LDOUSDT", "CRVUSDT", "MKRUSDT", "COMPUSDT",
	"UNIUSDT", "APEUSDT", "FLOKIUSDT", "GRTUSDT", "ALGOUSDT", "ICPUSDT", "HBARUSDT", "EOSUSDT",
}

// Data sources for candle history.
const (
	SourceBinance = "binance"
	SourceSQLite  = "sqlite"
)

// Config holds all application configuration. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Config struct {
	// Market data
	Universe       []string `yaml:"universe" validate:"min=1,dive,required"`
	Interval       string   `yaml:"interval" validate:"required"`
	HistoryLimit   int      `yaml:"history_limit" validate:"gte=2,lte=1000"`
	Source         string   `yaml:"source" validate:"oneof=binance sqlite"`
	BinanceBaseURL string   `yaml:"binance_base_url" validate:"omitempty,url"`

	// Scheduling
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gt=0"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" validate:"gt=0"`
	Workers         int           `yaml:"workers" validate:"gt=0"`

	// Infrastructure
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	SignalChannel string `yaml:"signal_channel" validate:"required"`
	SQLitePath    string `yaml:"sqlite_path" validate:"required"`
	MetricsAddr   string `yaml:"metrics_addr"`
	GatewayAddr   string `yaml:"gateway_addr" validate:"required"`
	WebhookURL    string `yaml:"webhook_url" validate:"omitempty,url"`
	LogLevel      string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Telegram alerts are enabled when both are set.
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id" validate:"required_with=TelegramToken"`

	// Sizing and decision parameters
	Risk     portfolio.RiskLimits `yaml:"risk"`
	Strategy strategy.Params      `yaml:"strategy"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Universe:        append([]string(nil), DefaultUniverse...),
		Interval:        "15m",
		HistoryLimit:    150,
		Source:          SourceBinance,
		RefreshInterval: 60 * time.Second,
		FetchTimeout:    10 * time.Second,
		Workers:         8,
		RedisAddr:       "",
		SignalChannel:   "pub:signals",
		SQLitePath:      "data/candles.db",
		MetricsAddr:     ":9090",
		GatewayAddr:     ":8000",
		LogLevel:        "info",
		Risk:            portfolio.DefaultRiskLimits(),
		Strategy:        strategy.DefaultParams(),
	}
}

// Load builds the configuration. path may be empty, in which case
// CONFIG_FILE is consulted and, failing that, no file is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := getEnv("SIGNAL_UNIVERSE", ""); v != "" {
		c.Universe = ParseUniverse(v)
	}
	c.Interval = getEnv("SIGNAL_INTERVAL", c.Interval)
	c.Source = getEnv("DATA_SOURCE", c.Source)
	c.BinanceBaseURL = getEnv("BINANCE_BASE_URL", c.BinanceBaseURL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.SignalChannel = getEnv("SIGNAL_CHANNEL", c.SignalChannel)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.MetricsAddr = getEnv("METRICS_ADDR", c.MetricsAddr)
	c.GatewayAddr = getEnv("GATEWAY_ADDR", c.GatewayAddr)
	c.WebhookURL = getEnv("WEBHOOK_URL", c.WebhookURL)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", c.TelegramToken)

	var err error
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if c.TelegramChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return errors.Wrap(err, "env TELEGRAM_CHAT_ID")
		}
	}
	if c.HistoryLimit, err = envInt("HISTORY_LIMIT", c.HistoryLimit); err != nil {
		return err
	}
	if c.Workers, err = envInt("WORKERS", c.Workers); err != nil {
		return err
	}
	if c.RefreshInterval, err = envDuration("REFRESH_INTERVAL", c.RefreshInterval); err != nil {
		return err
	}
	if c.FetchTimeout, err = envDuration("FETCH_TIMEOUT", c.FetchTimeout); err != nil {
		return err
	}
	if c.Risk.AccountSize, err = envFloat("ACCOUNT_SIZE", c.Risk.AccountSize); err != nil {
		return err
	}
	if c.Risk.RiskPercentage, err = envFloat("RISK_PERCENTAGE", c.Risk.RiskPercentage); err != nil {
		return err
	}
	return nil
}

// ParseUniverse splits a comma-separated symbol list, upper-casing entries
// and dropping blanks and duplicates.
func ParseUniverse(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "env %s", key)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "env %s", key)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "env %s", key)
	}
	return d, nil
}
