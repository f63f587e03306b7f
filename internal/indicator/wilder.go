package indicator

import "math"

// Wilder calculates Wilder's smoothed average.
// First value is the simple mean of period inputs, then
// avg = (prev*(period-1) + x) / period.
type Wilder struct {
	period  int
	count   int
	sum     float64
	current float64
}

// NewWilder creates a new Wilder smoother with the given period.
func NewWilder(period int) *Wilder {
	return &Wilder{period: period, current: math.NaN()}
}

func (w *Wilder) Name() string { return "WILDER" }

func (w *Wilder) Update(value float64) {
	w.count++

	if w.count <= w.period {
		// Accumulate for the simple-mean seed
		w.sum += value
		if w.count == w.period {
			w.current = w.sum / float64(w.period)
		}
		return
	}

	p := float64(w.period)
	w.current = (w.current*(p-1) + value) / p
}

func (w *Wilder) Value() float64 { return w.current }
func (w *Wilder) Ready() bool    { return w.count >= w.period }

// Reset clears the smoother state for reuse.
func (w *Wilder) Reset() {
	w.count = 0
	w.sum = 0
	w.current = math.NaN()
}
