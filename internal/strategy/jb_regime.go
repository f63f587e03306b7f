package strategy

import "signaldesk/internal/model"

// Rules holds the decision thresholds.
type Rules struct {
	BandWidthMax float64 `yaml:"bandwidth_max" validate:"gt=0"`
	RSIBuyMax    float64 `yaml:"rsi_buy_max" validate:"gt=0,lte=100"`
	RSISellMin   float64 `yaml:"rsi_sell_min" validate:"gte=0,lt=100"`
}

// DefaultRules returns the default thresholds.
func DefaultRules() Rules {
	return Rules{BandWidthMax: 0.10, RSIBuyMax: 67, RSISellMin: 40}
}

// JBRegime trades volatility squeezes only while log returns are non-normal.
//
// Buy: squeeze, fast EMA above slow, close above VWAP, RSI below RSIBuyMax,
// MACD above signal, volatility not falling, rolling JB not falling.
//
// Sell: squeeze, fast EMA below slow, close below VWAP, RSI above RSISellMin,
// MACD below signal, volatility not rising, rolling JB not rising.
//
// Buy is checked first. Any unavailable reading fails its condition.
type JBRegime struct {
	Rules Rules
}

// NewJBRegime creates the strategy with the given thresholds.
func NewJBRegime(rules Rules) *JBRegime {
	return &JBRegime{Rules: rules}
}

func (s *JBRegime) Name() string { return "JB_Regime" }

func (s *JBRegime) Decide(in Inputs) model.Action {
	if s.buy(in) {
		return model.ActionBuy
	}
	if s.sell(in) {
		return model.ActionSell
	}
	return model.ActionWait
}

func (s *JBRegime) buy(in Inputs) bool {
	return in.JBSafe &&
		in.BandWidth.Less(s.Rules.BandWidthMax) &&
		both(in.EMAFast, in.EMASlow) && in.EMAFast.Value > in.EMASlow.Value &&
		both(in.Close, in.VWAP) && in.Close.Value > in.VWAP.Value &&
		in.RSI.Less(s.Rules.RSIBuyMax) &&
		both(in.MACD, in.MACDSignal) && in.MACD.Value > in.MACDSignal.Value &&
		in.VolChange.NotEqual(-1) &&
		in.JBChange.AtLeast(0)
}

func (s *JBRegime) sell(in Inputs) bool {
	return in.JBSafe &&
		in.BandWidth.Less(s.Rules.BandWidthMax) &&
		both(in.EMAFast, in.EMASlow) && in.EMAFast.Value < in.EMASlow.Value &&
		both(in.Close, in.VWAP) && in.Close.Value < in.VWAP.Value &&
		in.RSI.Greater(s.Rules.RSISellMin) &&
		both(in.MACD, in.MACDSignal) && in.MACD.Value < in.MACDSignal.Value &&
		in.VolChange.AtMost(0) &&
		in.JBChange.AtMost(0)
}
