package model

import "context"

// ── Port Interfaces ──
// These interfaces decouple the signal engine from concrete adapters
// (Binance REST, SQLite capture, Redis, terminal output).

// HistorySource returns the recent candle window for one instrument.
type HistorySource interface {
	// History returns up to the configured number of candles, oldest first.
	// Missing or malformed data is reported as ErrDataUnavailable.
	History(ctx context.Context, symbol string) ([]Candle, error)
}

// PriceSource returns the latest traded price for one instrument.
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}

// MarketData is a provider that serves both history and latest price.
type MarketData interface {
	HistorySource
	PriceSource
}

// Reporter consumes the result of a refresh cycle.
type Reporter interface {
	Report(ctx context.Context, report CycleReport) error
}

// CandleWriter persists fetched candles for offline replay.
type CandleWriter interface {
	WriteCandles(ctx context.Context, symbol, interval string, candles []Candle) error
	WritePrice(ctx context.Context, symbol string, price float64, at int64) error
	Close() error
}
