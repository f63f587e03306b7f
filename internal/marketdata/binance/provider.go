// Package binance serves candle history and latest prices from the Binance
// public REST API.
package binance

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/adshao/go-binance/v2"

	"signaldesk/internal/model"
)

// Provider implements model.MarketData for Binance spot symbols.
type Provider struct {
	client   *binance.Client
	interval string
	limit    int
}

// NewClient returns an unauthenticated client. An empty baseURL keeps the
// library default.
func NewClient(baseURL string) *binance.Client {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return client
}

// NewProvider creates a provider fetching limit candles of the given interval.
func NewProvider(client *binance.Client, interval string, limit int) *Provider {
	return &Provider{client: client, interval: interval, limit: limit}
}

// NormalizeSymbol converts "BTC_USDT" or "btcusdt" to "BTCUSDT".
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(symbol), "_", ""))
}

// History fetches the most recent candles, oldest first.
func (p *Provider) History(ctx context.Context, symbol string) ([]model.Candle, error) {
	sym := NormalizeSymbol(symbol)
	klines, err := p.client.NewKlinesService().
		Symbol(sym).
		Interval(p.interval).
		Limit(p.limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch klines for %s: %w", model.ErrDataUnavailable, sym, err)
	}

	candles := make([]model.Candle, len(klines))
	for i, k := range klines {
		c, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("%w: kline %d of %s: %w", model.ErrDataUnavailable, i, sym, err)
		}
		candles[i] = c
	}
	if err := model.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("klines for %s: %w", sym, err)
	}
	return candles, nil
}

// LatestPrice fetches the last traded price.
func (p *Provider) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	sym := NormalizeSymbol(symbol)
	prices, err := p.client.NewListPricesService().Symbol(sym).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch price for %s: %w", model.ErrDataUnavailable, sym, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("%w: empty price list for %s", model.ErrDataUnavailable, sym)
	}
	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse price for %s: %w", model.ErrDataUnavailable, sym, err)
	}
	return price, nil
}

func parseKline(k *binance.Kline) (model.Candle, error) {
	var (
		c   = model.Candle{TS: k.OpenTime}
		err error
	)
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"open", k.Open, &c.Open},
		{"high", k.High, &c.High},
		{"low", k.Low, &c.Low},
		{"close", k.Close, &c.Close},
		{"volume", k.Volume, &c.Volume},
	}
	for _, f := range fields {
		if *f.dst, err = strconv.ParseFloat(f.raw, 64); err != nil {
			return model.Candle{}, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	return c, nil
}
