package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Universe, 40)
	assert.Equal(t, "15m", cfg.Interval)
	assert.Equal(t, 150, cfg.HistoryLimit)
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 100000.0, cfg.Risk.AccountSize)
	assert.Equal(t, 0.10, cfg.Strategy.Rules.BandWidthMax)
	assert.Equal(t, 128, cfg.Strategy.Normality.Window)
}

func TestDefault_UniverseIsCopied(t *testing.T) {
	cfg := Default()
	cfg.Universe[0] = "XXX"
	assert.Equal(t, "SOLUSDT", DefaultUniverse[0])
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signals.yaml")
	yml := `
universe: [BTCUSDT, ETHUSDT]
refresh_interval: 30s
workers: 2
risk:
  account_size: 5000
  risk_percentage: 2
  stop_atr_multiple: 2
  max_allocation: 0.1
strategy:
  rules:
    bandwidth_max: 0.05
    rsi_buy_max: 70
    rsi_sell_min: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("WORKERS", "4")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Universe)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5000.0, cfg.Risk.AccountSize)
	assert.Equal(t, 0.05, cfg.Strategy.Rules.BandWidthMax)
	// untouched nested defaults survive a partial file
	assert.Equal(t, 16, cfg.Strategy.Indicators.EMAFast)
	assert.Equal(t, 37, cfg.Strategy.Indicators.EMASlow)
}

func TestLoad_EnvUniverse(t *testing.T) {
	t.Setenv("SIGNAL_UNIVERSE", "btcusdt, ethusdt,,BTCUSDT")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Universe)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("DATA_SOURCE", "mexc")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Telegram(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	_, err := Load("")
	require.Error(t, err, "token without chat id")

	t.Setenv("TELEGRAM_CHAT_ID", "-100200300")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, int64(-100200300), cfg.TelegramChatID)
}
