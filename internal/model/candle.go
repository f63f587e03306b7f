package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Candle is one OHLCV bar as delivered by the exchange.
// TS is the bar open time in epoch milliseconds.
type Candle struct {
	TS     int64   `json:"ts"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Time returns the bar open time in UTC.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.TS).UTC()
}

// TypicalPrice returns (high+low+close)/3.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}

// Closes extracts the close prices of a candle sequence.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// ValidateCandles checks that a history payload is usable: non-empty,
// strictly increasing timestamps, finite positive prices and non-negative volume.
// Any violation is reported as ErrDataUnavailable.
func ValidateCandles(candles []Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("%w: empty candle sequence", ErrDataUnavailable)
	}
	for i, c := range candles {
		for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				return fmt.Errorf("%w: candle %d has invalid price %v", ErrDataUnavailable, i, v)
			}
		}
		if math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) || c.Volume < 0 {
			return fmt.Errorf("%w: candle %d has invalid volume %v", ErrDataUnavailable, i, c.Volume)
		}
		if i > 0 && c.TS <= candles[i-1].TS {
			return fmt.Errorf("%w: candle %d out of order", ErrDataUnavailable, i)
		}
	}
	return nil
}
