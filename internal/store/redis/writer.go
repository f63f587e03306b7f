// Package redis publishes cycle reports to Redis and reads them back for
// the gateway.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"signaldesk/internal/model"
)

const (
	defaultLatestKey = "signals:latest"
	defaultSymbolKey = "signals:by_symbol"
	defaultLatestTTL = 30 * time.Minute
)

// Config configures the Redis publisher and reader.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
	Channel  string // pub/sub channel for cycle reports, e.g. "pub:signals"
}

// Writer publishes cycle reports. It implements model.Reporter.
type Writer struct {
	client  *goredis.Client
	channel string
	breaker *CircuitBreaker
	log     *zap.Logger
}

// Client returns the underlying Redis client for health checks.
func (w *Writer) Client() *goredis.Client { return w.client }

// Breaker returns the publisher's circuit breaker.
func (w *Writer) Breaker() *CircuitBreaker { return w.breaker }

func newClient(cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// New creates a Writer and pings the server.
func New(cfg Config, log *zap.Logger) (*Writer, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("redis connected", zap.String("addr", cfg.Addr), zap.String("channel", cfg.Channel))
	return &Writer{
		client:  client,
		channel: cfg.Channel,
		breaker: NewCircuitBreaker(5, 10*time.Second),
		log:     log,
	}, nil
}

// Report stores the report as the latest snapshot, replaces the
// per-instrument index with this cycle's instruments and publishes the
// report, all in one MULTI/EXEC transaction. Instruments skipped in this
// cycle drop out of the index.
func (w *Writer) Report(ctx context.Context, report model.CycleReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	bySymbol := make(map[string]interface{}, len(report.Reports))
	for _, ir := range report.Reports {
		b, err := json.Marshal(ir)
		if err != nil {
			return fmt.Errorf("encode %s: %w", ir.Symbol, err)
		}
		bySymbol[ir.Symbol] = b
	}

	return w.breaker.Execute(func() error {
		pipe := w.client.TxPipeline()
		pipe.Set(ctx, defaultLatestKey, payload, defaultLatestTTL)
		pipe.Del(ctx, defaultSymbolKey)
		if len(bySymbol) > 0 {
			pipe.HSet(ctx, defaultSymbolKey, bySymbol)
			pipe.Expire(ctx, defaultSymbolKey, defaultLatestTTL)
		}
		pipe.Publish(ctx, w.channel, payload)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("redis publish report %s: %w", report.ID, err)
		}
		w.log.Debug("report published", zap.String("cycle_id", report.ID), zap.Int("instruments", len(report.Reports)))
		return nil
	})
}

// Close closes the client.
func (w *Writer) Close() error {
	return w.client.Close()
}
