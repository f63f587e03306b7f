package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"signaldesk/internal/model"
)

func longCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := 100 + float64(i%7) - float64(i%3)*0.5 + float64(i)*0.05
		out[i] = model.Candle{TS: int64(i) * 900_000, Open: c, High: c + 0.8, Low: c - 0.6, Close: c, Volume: 5 + float64(i%4)}
	}
	return out
}

func TestCompute_Offsets(t *testing.T) {
	set := Compute(longCandles(150), DefaultParams())

	cases := []struct {
		name   string
		s      model.Series
		offset int
	}{
		{"log returns", set.LogReturns, 1},
		{"realized vol", set.RealizedVol, 16},
		{"vol change", set.VolChange, 20},
		{"ema fast", set.EMAFast, 0},
		{"ema slow", set.EMASlow, 0},
		{"rsi", set.RSI, 16},
		{"macd", set.MACD, 0},
		{"macd signal", set.MACDSignal, 0},
		{"bandwidth", set.BandWidth, 15},
		{"vwap", set.VWAP, 0},
		{"atr", set.ATR, 16},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.offset, tc.s.Offset)
			// every series ends at the newest candle
			assert.Equal(t, 150, tc.s.End())
		})
	}
}

func TestCompute_ShortWindow(t *testing.T) {
	set := Compute(longCandles(10), DefaultParams())
	assert.Equal(t, 0, set.RSI.Len())
	assert.Equal(t, 0, set.ATR.Len())
	assert.Equal(t, 0, set.BandWidth.Len())
	assert.Equal(t, 0, set.VolChange.Len())
	assert.Equal(t, 10, set.EMAFast.Len())

	last, ok := set.LastClose()
	assert.True(t, ok)
	assert.Equal(t, set.Candles[9].Close, last)
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(longCandles(120), DefaultParams())
	b := Compute(longCandles(120), DefaultParams())
	assert.Equal(t, a.MACD.Values, b.MACD.Values)
	assert.Equal(t, a.RSI.Values, b.RSI.Values)
}
