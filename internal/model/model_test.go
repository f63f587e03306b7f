package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCandles(t *testing.T) {
	good := []Candle{
		{TS: 1, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{TS: 2, Open: 1.5, High: 2, Low: 1, Close: 1.8, Volume: 0},
	}
	require.NoError(t, ValidateCandles(good))

	cases := map[string][]Candle{
		"empty":        nil,
		"zero close":   {{TS: 1, Open: 1, High: 1, Low: 1, Close: 0}},
		"nan high":     {{TS: 1, Open: 1, High: math.NaN(), Low: 1, Close: 1}},
		"neg volume":   {{TS: 1, Open: 1, High: 1, Low: 1, Close: 1, Volume: -1}},
		"out of order": {good[1], good[0]},
	}
	for name, candles := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateCandles(candles), ErrDataUnavailable)
		})
	}
}

func TestSeries_Alignment(t *testing.T) {
	s := NewSeries(16, []float64{1, 2, 3})
	assert.Equal(t, 19, s.End())

	v, ok := s.At(17)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = s.At(15)
	assert.False(t, ok)
	_, ok = s.At(19)
	assert.False(t, ok)

	last, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, 3.0, last)
	assert.Equal(t, []float64{2, 3}, s.Tail(2))
	assert.Equal(t, []float64{1, 2, 3}, s.Tail(10))
}

func TestSeries_LatestUnavailable(t *testing.T) {
	_, ok := NewSeries(0, nil).Latest()
	assert.False(t, ok)
	_, ok = NewSeries(0, []float64{1, math.NaN()}).Latest()
	assert.False(t, ok)
}

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionUp, DirectionOf(1))
	assert.Equal(t, DirectionDown, DirectionOf(-1))
	assert.Equal(t, DirectionNeutral, DirectionOf(0))
}

func TestCycleReport_LookupAndCount(t *testing.T) {
	r := CycleReport{Reports: []InstrumentReport{
		{Symbol: "BTCUSDT", Diagnostics: Diagnostics{Action: ActionBuy}},
		{Symbol: "ETHUSDT", Diagnostics: Diagnostics{Action: ActionWait}},
		{Symbol: "SOLUSDT", Diagnostics: Diagnostics{Action: ActionBuy}},
	}}
	got, ok := r.Lookup("ETHUSDT")
	require.True(t, ok)
	assert.Equal(t, ActionWait, got.Diagnostics.Action)
	_, ok = r.Lookup("XRPUSDT")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Count(ActionBuy))
	assert.Equal(t, 0, r.Count(ActionSell))
}

func TestDiagnostics_JSONShape(t *testing.T) {
	d := Diagnostics{
		Action:       ActionWait,
		RSI:          optional.None[float64](),
		PositionSize: decimal.RequireFromString("12.50"),
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(mustJSON(t, d), &out))
	assert.Equal(t, "WAIT", out["action"])
	assert.Nil(t, out["rsi"])
	assert.Equal(t, "12.50", out["position_size"])
}

func TestDiagnostics_JSONRoundTrip(t *testing.T) {
	in := Diagnostics{
		Action:           ActionSell,
		JBSafe:           true,
		Trend:            TrendDown,
		RSI:              optional.Some(48.25),
		Momentum:         MomentumBearish,
		VWAPStatus:       VWAPBelow,
		VolatilityChange: DirectionDown,
		JBTrend:          DirectionNeutral,
		PositionSize:     decimal.RequireFromString("40.16"),
		LastClose:        249,
	}
	var out Diagnostics
	require.NoError(t, json.Unmarshal(mustJSON(t, in), &out))
	assert.Equal(t, in.Action, out.Action)
	assert.Equal(t, 48.25, out.RSI.Unwrap())
	assert.True(t, in.PositionSize.Equal(out.PositionSize))
	assert.Equal(t, in.VolatilityChange, out.VolatilityChange)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
