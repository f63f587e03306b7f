package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/internal/model"
	"signaldesk/internal/portfolio"
)

// linearCandles rises by step per bar with high/low one unit either side.
func linearCandles(n int, start, step float64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := start + step*float64(i)
		out[i] = model.Candle{
			TS:     1_700_000_000_000 + int64(i)*900_000,
			Open:   c - step,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10,
		}
	}
	return out
}

func newEngine(opts ...Option) *Engine {
	return NewEngine(DefaultParams(), portfolio.NewSizer(portfolio.DefaultRiskLimits()), opts...)
}

func TestEvaluate_EmptyIsDataUnavailable(t *testing.T) {
	_, err := newEngine().Evaluate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestEvaluate_Uptrend(t *testing.T) {
	candles := linearCandles(150, 100, 1)
	d, err := newEngine().Evaluate(candles)
	require.NoError(t, err)

	assert.Equal(t, model.TrendUp, d.Trend)
	assert.Equal(t, model.MomentumBullish, d.Momentum)
	assert.Equal(t, model.VWAPAbove, d.VWAPStatus)
	// only gains: RSI saturates and blocks the buy
	assert.Equal(t, 100.0, d.RSI.Unwrap())
	assert.Equal(t, model.ActionWait, d.Action)
	assert.Equal(t, 249.0, d.LastClose)
	assert.Equal(t, candles[149].TS, d.CandleTS)

	// ATR 2, stop 4: raw size far above the 10% cap of 10000/249
	assert.Equal(t, "40.16", d.PositionSize.StringFixed(2))
}

func TestEvaluate_DowntrendReportsZeroRSI(t *testing.T) {
	d, err := newEngine().Evaluate(linearCandles(150, 300, -1))
	require.NoError(t, err)

	assert.Equal(t, model.TrendDown, d.Trend)
	assert.Equal(t, model.MomentumBearish, d.Momentum)
	assert.Equal(t, model.VWAPBelow, d.VWAPStatus)
	require.True(t, d.RSI.IsSome())
	assert.Equal(t, 0.0, d.RSI.Unwrap())
	// RSI 0 is not above the sell floor
	assert.Equal(t, model.ActionWait, d.Action)
}

func TestEvaluate_ShortHistoryDegrades(t *testing.T) {
	d, err := newEngine().Evaluate(linearCandles(10, 100, 1))
	require.NoError(t, err)

	assert.Equal(t, model.ActionWait, d.Action)
	assert.False(t, d.JBSafe)
	assert.False(t, d.VolatilityCompression)
	assert.True(t, d.RSI.IsNone())
	assert.Equal(t, model.DirectionNeutral, d.VolatilityChange)
	assert.Equal(t, model.DirectionNeutral, d.JBTrend)
	assert.Equal(t, "0.00", d.PositionSize.StringFixed(2))
}

func TestEvaluate_SingleCandle(t *testing.T) {
	d, err := newEngine().Evaluate(linearCandles(1, 100, 1))
	require.NoError(t, err)
	assert.Equal(t, model.ActionWait, d.Action)
	assert.Equal(t, model.TrendDown, d.Trend)
	assert.Equal(t, model.MomentumNeutral, d.Momentum)
}

type fixedStrategy struct{ action model.Action }

func (f fixedStrategy) Name() string               { return "fixed" }
func (f fixedStrategy) Decide(Inputs) model.Action { return f.action }

func TestEvaluate_WithStrategy(t *testing.T) {
	e := newEngine(WithStrategy(fixedStrategy{action: model.ActionSell}))
	d, err := e.Evaluate(linearCandles(50, 100, 1))
	require.NoError(t, err)
	assert.Equal(t, model.ActionSell, d.Action)
	assert.Equal(t, "fixed", e.Strategy().Name())
}

func TestEvaluate_Deterministic(t *testing.T) {
	candles := linearCandles(150, 50, 0.25)
	a, err := newEngine().Evaluate(candles)
	require.NoError(t, err)
	b, err := newEngine().Evaluate(candles)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestInputs_LatestReadings(t *testing.T) {
	in := newEngine().Inputs(linearCandles(150, 100, 1))
	assert.True(t, in.Close.OK)
	assert.True(t, in.ATR.OK)
	assert.InDelta(t, 2.0, in.ATR.Value, 1e-9)
	assert.True(t, in.VolChange.OK)
	assert.True(t, in.RSI.OK)
}

func TestEvaluate_SqueezeBuy(t *testing.T) {
	candles := closeCandles(squeezeUpCloses)
	d, err := newEngine().Evaluate(candles)
	require.NoError(t, err)

	assert.Equal(t, model.ActionBuy, d.Action)
	assert.True(t, d.JBSafe)
	assert.True(t, d.VolatilityCompression)
	assert.Equal(t, model.TrendUp, d.Trend)
	assert.Equal(t, model.MomentumBullish, d.Momentum)
	assert.Equal(t, model.VWAPAbove, d.VWAPStatus)
	assert.Equal(t, model.DirectionUp, d.VolatilityChange)
	assert.Equal(t, model.DirectionUp, d.JBTrend)
	require.True(t, d.RSI.IsSome())
	assert.InDelta(t, 65.4080314375673, d.RSI.Unwrap(), 1e-9)
	assert.Equal(t, 106.54, d.LastClose)
	assert.Equal(t, candles[149].TS, d.CandleTS)
	// ATR 1.0075: raw 1000/2.015*106.54 is far above the 10000/106.54 cap
	assert.Equal(t, "93.86", d.PositionSize.StringFixed(2))
}

func TestEvaluate_SqueezeSell(t *testing.T) {
	d, err := newEngine().Evaluate(closeCandles(squeezeDownCloses))
	require.NoError(t, err)

	assert.Equal(t, model.ActionSell, d.Action)
	assert.True(t, d.JBSafe)
	assert.True(t, d.VolatilityCompression)
	assert.Equal(t, model.TrendDown, d.Trend)
	assert.Equal(t, model.MomentumBearish, d.Momentum)
	assert.Equal(t, model.VWAPBelow, d.VWAPStatus)
	assert.Equal(t, model.DirectionDown, d.VolatilityChange)
	assert.Equal(t, model.DirectionDown, d.JBTrend)
	assert.InDelta(t, 44.20706866287758, d.RSI.Unwrap(), 1e-9)
	assert.Equal(t, "110.78", d.PositionSize.StringFixed(2))
}

func TestEvaluate_SqueezeBlocked(t *testing.T) {
	tests := []struct {
		name      string
		closes    []float64
		rules     func(*Rules)
		want      model.Action
		trend     model.Trend
		volChange model.Direction
	}{
		{
			name:      "buy setup above the rsi ceiling",
			closes:    squeezeUpCloses,
			rules:     func(r *Rules) { r.RSIBuyMax = 60 },
			want:      model.ActionWait,
			trend:     model.TrendUp,
			volChange: model.DirectionUp,
		},
		{
			name:      "buy setup outside a tighter squeeze",
			closes:    squeezeUpCloses,
			rules:     func(r *Rules) { r.BandWidthMax = 0.01 },
			want:      model.ActionWait,
			trend:     model.TrendUp,
			volChange: model.DirectionUp,
		},
		{
			name:      "sell setup below the rsi floor",
			closes:    squeezeDownCloses,
			rules:     func(r *Rules) { r.RSISellMin = 50 },
			want:      model.ActionWait,
			trend:     model.TrendDown,
			volChange: model.DirectionDown,
		},
		{
			// bearish everywhere except rising volatility and rolling JB
			name:      "mirrored buy setup",
			closes:    mirrored(squeezeUpCloses),
			want:      model.ActionWait,
			trend:     model.TrendDown,
			volChange: model.DirectionUp,
		},
		{
			// bullish everywhere except falling volatility
			name:      "mirrored sell setup",
			closes:    mirrored(squeezeDownCloses),
			want:      model.ActionWait,
			trend:     model.TrendUp,
			volChange: model.DirectionDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			if tt.rules != nil {
				tt.rules(&params.Rules)
			}
			e := NewEngine(params, portfolio.NewSizer(portfolio.DefaultRiskLimits()))
			d, err := e.Evaluate(closeCandles(tt.closes))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Action)
			assert.True(t, d.JBSafe)
			assert.Equal(t, tt.trend, d.Trend)
			assert.Equal(t, tt.volChange, d.VolatilityChange)
		})
	}
}
