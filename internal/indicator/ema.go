package indicator

import "math"

// EMA calculates the Exponential Moving Average seeded with the first value.
// O(1) per update, no window storage needed.
type EMA struct {
	span       int
	multiplier float64
	current    float64
	count      int
}

// NewEMA creates a new EMA with smoothing factor 2/(span+1).
func NewEMA(span int) *EMA {
	return &EMA{
		span:       span,
		multiplier: 2.0 / float64(span+1),
		current:    math.NaN(),
	}
}

func (e *EMA) Name() string { return "EMA" }

func (e *EMA) Update(value float64) {
	e.count++
	if e.count == 1 {
		e.current = value
		return
	}
	// EMA = value*k + prev*(1-k)
	e.current = value*e.multiplier + e.current*(1-e.multiplier)
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.count > 0 }

// Reset clears the EMA state for reuse.
func (e *EMA) Reset() {
	e.current = math.NaN()
	e.count = 0
}
