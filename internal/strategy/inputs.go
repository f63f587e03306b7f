package strategy

import "signaldesk/internal/model"

// Reading is the latest value of a series. OK is false when the series had
// no value or the value is NaN.
type Reading struct {
	Value float64
	OK    bool
}

func latest(s model.Series) Reading {
	v, ok := s.Latest()
	return Reading{Value: v, OK: ok}
}

// Less reports r < x. Unavailable readings compare false.
func (r Reading) Less(x float64) bool { return r.OK && r.Value < x }

// Greater reports r > x. Unavailable readings compare false.
func (r Reading) Greater(x float64) bool { return r.OK && r.Value > x }

// AtMost reports r <= x. Unavailable readings compare false.
func (r Reading) AtMost(x float64) bool { return r.OK && r.Value <= x }

// AtLeast reports r >= x. Unavailable readings compare false.
func (r Reading) AtLeast(x float64) bool { return r.OK && r.Value >= x }

// NotEqual reports r != x. Unavailable readings compare false.
func (r Reading) NotEqual(x float64) bool { return r.OK && r.Value != x }

// Inputs are the latest readings a Strategy decides on.
type Inputs struct {
	JBSafe     bool
	Close      Reading
	BandWidth  Reading
	EMAFast    Reading
	EMASlow    Reading
	VWAP       Reading
	RSI        Reading
	MACD       Reading
	MACDSignal Reading
	VolChange  Reading
	JBChange   Reading
	ATR        Reading
}

// both reports whether a and b are available.
func both(a, b Reading) bool { return a.OK && b.OK }
