package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"signaldesk/internal/model"
)

// Reader serves published reports to the gateway.
type Reader struct {
	client  *goredis.Client
	channel string
	log     *zap.Logger
}

// NewReader creates a Reader and pings the server.
func NewReader(cfg Config, log *zap.Logger) (*Reader, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("redis reader connected", zap.String("addr", cfg.Addr))
	return &Reader{client: client, channel: cfg.Channel, log: log}, nil
}

// Client returns the underlying Redis client for health checks.
func (r *Reader) Client() *goredis.Client { return r.client }

// Latest returns the most recently published cycle report.
func (r *Reader) Latest(ctx context.Context) (model.CycleReport, error) {
	raw, err := r.client.Get(ctx, defaultLatestKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.CycleReport{}, model.ErrNoReport
	}
	if err != nil {
		return model.CycleReport{}, fmt.Errorf("redis get latest: %w", err)
	}
	var report model.CycleReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return model.CycleReport{}, fmt.Errorf("decode latest: %w", err)
	}
	return report, nil
}

// Instrument returns the latest report for one symbol.
func (r *Reader) Instrument(ctx context.Context, symbol string) (model.InstrumentReport, error) {
	raw, err := r.client.HGet(ctx, defaultSymbolKey, symbol).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.InstrumentReport{}, model.ErrNoReport
	}
	if err != nil {
		return model.InstrumentReport{}, fmt.Errorf("redis hget %s: %w", symbol, err)
	}
	var ir model.InstrumentReport
	if err := json.Unmarshal(raw, &ir); err != nil {
		return model.InstrumentReport{}, fmt.Errorf("decode %s: %w", symbol, err)
	}
	return ir, nil
}

// Subscribe delivers every published report to fn until ctx is cancelled.
// Undecodable messages are logged and skipped.
func (r *Reader) Subscribe(ctx context.Context, fn func(raw []byte, report model.CycleReport)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var report model.CycleReport
			if err := json.Unmarshal([]byte(msg.Payload), &report); err != nil {
				r.log.Warn("skipping undecodable report", zap.Error(err))
				continue
			}
			fn([]byte(msg.Payload), report)
		}
	}
}

// Close closes the client.
func (r *Reader) Close() error {
	return r.client.Close()
}
