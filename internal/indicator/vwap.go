package indicator

import (
	"math"

	"signaldesk/internal/model"
)

// VWAP accumulates the volume-weighted average of the typical price from
// the first candle it sees. It never resets within a window.
type VWAP struct {
	cumPV  float64
	cumVol float64
}

// NewVWAP creates an empty VWAP accumulator.
func NewVWAP() *VWAP { return &VWAP{} }

func (v *VWAP) Name() string { return "VWAP" }

// Update adds one candle.
func (v *VWAP) Update(c model.Candle) {
	v.cumPV += c.TypicalPrice() * c.Volume
	v.cumVol += c.Volume
}

// Value returns the running VWAP, NaN while no volume has traded.
func (v *VWAP) Value() float64 {
	if v.cumVol == 0 {
		return math.NaN()
	}
	return v.cumPV / v.cumVol
}

func (v *VWAP) Ready() bool { return v.cumVol > 0 }
