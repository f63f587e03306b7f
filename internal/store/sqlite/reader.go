package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"signaldesk/internal/model"
)

// Reader serves captured data as a model.MarketData source.
type Reader struct {
	db       *sql.DB
	interval string
	limit    int
}

// NewReader opens a SQLite connection for reading windows of limit candles.
func NewReader(dbPath, interval string, limit int) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return &Reader{db: db, interval: interval, limit: limit}, nil
}

// DB returns the underlying sql.DB for health checks.
func (r *Reader) DB() *sql.DB { return r.db }

// History returns the newest limit candles for symbol, oldest first.
func (r *Reader) History(ctx context.Context, symbol string) ([]model.Candle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ts, open, high, low, close, volume FROM (
			SELECT ts, open, high, low, close, volume
			FROM candles
			WHERE symbol = ? AND timeframe = ?
			ORDER BY ts DESC
			LIMIT ?
		) ORDER BY ts ASC
	`, symbol, r.interval, r.limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		if err := rows.Scan(&c.TS, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan candles: %w", err)
		}
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite iterate candles: %w", err)
	}
	if err := model.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return candles, nil
}

// LatestPrice returns the most recent captured price for symbol.
func (r *Reader) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	var price float64
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM prices WHERE symbol = ? ORDER BY ts DESC LIMIT 1`, symbol).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no captured price for %s", model.ErrDataUnavailable, symbol)
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite query price: %w", err)
	}
	return price, nil
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}
