// Package strategy turns a candle window into a trading decision and the
// diagnostics that explain it.
//
// The Engine computes indicators and the normality gate, gathers the latest
// value of every series into Inputs and hands them to a Strategy. Engines
// hold only immutable configuration and may be shared across goroutines.
package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"signaldesk/internal/indicator"
	"signaldesk/internal/model"
	"signaldesk/internal/normality"
	"signaldesk/internal/portfolio"
)

// Strategy maps the latest indicator readings to an action.
type Strategy interface {
	// Name returns the unique name of the strategy.
	Name() string

	// Decide returns BUY, SELL or WAIT.
	Decide(in Inputs) model.Action
}

// Params configures the engine's indicator and normality windows.
type Params struct {
	Indicators indicator.Params `yaml:"indicators"`
	Normality  normality.Test   `yaml:"normality"`
	// RollingJBWindow is the window of the rolling JB series behind JBChange.
	RollingJBWindow int `yaml:"rolling_jb_window" validate:"gt=3"`
	// JBLookback is the candle distance compared by JBChange.
	JBLookback int   `yaml:"jb_lookback" validate:"gt=0"`
	Rules      Rules `yaml:"rules"`
}

// DefaultParams returns the 15-minute parameter set.
func DefaultParams() Params {
	return Params{
		Indicators:      indicator.DefaultParams(),
		Normality:       normality.DefaultTest(),
		RollingJBWindow: 16,
		JBLookback:      4,
		Rules:           DefaultRules(),
	}
}

// Engine evaluates candle windows.
type Engine struct {
	params   Params
	strategy Strategy
	sizer    *portfolio.Sizer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithStrategy replaces the default JBRegime strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// NewEngine creates an engine that sizes with sizer and decides with
// JBRegime over params.Rules unless another strategy is supplied.
func NewEngine(params Params, sizer *portfolio.Sizer, opts ...Option) *Engine {
	e := &Engine{
		params:   params,
		strategy: NewJBRegime(params.Rules),
		sizer:    sizer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the decision strategy in use.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Inputs extracts the latest reading of every series from a candle window.
func (e *Engine) Inputs(candles []model.Candle) Inputs {
	set := indicator.Compute(candles, e.params.Indicators)
	jbRoll := normality.Rolling(set.LogReturns, e.params.RollingJBWindow)

	in := Inputs{JBSafe: e.params.Normality.Safe(set.LogReturns)}
	in.Close = latest(set.Closes)
	in.BandWidth = latest(set.BandWidth)
	in.EMAFast = latest(set.EMAFast)
	in.EMASlow = latest(set.EMASlow)
	in.VWAP = latest(set.VWAP)
	in.RSI = latest(set.RSI)
	in.MACD = latest(set.MACD)
	in.MACDSignal = latest(set.MACDSignal)
	in.VolChange = latest(set.VolChange)
	in.JBChange = latest(indicator.SignChange(jbRoll, e.params.JBLookback))
	in.ATR = latest(set.ATR)
	return in
}

// Evaluate computes the diagnostics record for one instrument.
// Only an empty window is an error; short windows degrade to WAIT.
func (e *Engine) Evaluate(candles []model.Candle) (model.Diagnostics, error) {
	if len(candles) == 0 {
		return model.Diagnostics{}, fmt.Errorf("%w: no candles to evaluate", model.ErrDataUnavailable)
	}
	in := e.Inputs(candles)

	d := model.Diagnostics{
		Action:                e.strategy.Decide(in),
		JBSafe:                in.JBSafe,
		VolatilityCompression: in.BandWidth.Less(e.params.Rules.BandWidthMax),
		Trend:                 model.TrendDown,
		Momentum:              model.MomentumNeutral,
		VWAPStatus:            model.VWAPBelow,
		VolatilityChange:      model.DirectionNeutral,
		JBTrend:               model.DirectionNeutral,
		LastClose:             in.Close.Value,
		CandleTS:              candles[len(candles)-1].TS,
	}
	if in.EMAFast.Greater(in.EMASlow.Value) && in.EMASlow.OK {
		d.Trend = model.TrendUp
	}
	if in.RSI.OK {
		d.RSI = optional.Some(in.RSI.Value)
	}
	if in.MACD.OK && in.MACDSignal.OK {
		switch {
		case in.MACD.Value > in.MACDSignal.Value:
			d.Momentum = model.MomentumBullish
		case in.MACD.Value < in.MACDSignal.Value:
			d.Momentum = model.MomentumBearish
		}
	}
	if in.VWAP.OK && in.Close.Greater(in.VWAP.Value) {
		d.VWAPStatus = model.VWAPAbove
	}
	if in.VolChange.OK {
		d.VolatilityChange = model.DirectionOf(in.VolChange.Value)
	}
	if in.JBChange.OK {
		d.JBTrend = model.DirectionOf(in.JBChange.Value)
	}
	d.PositionSize = e.sizer.Size(in.ATR.Value, in.Close.Value)
	return d, nil
}
