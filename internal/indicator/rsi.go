package indicator

import "math"

// RSI calculates the Relative Strength Index using Wilder's smoothing.
// The first value is produced once period price changes have been seen,
// i.e. at close index period.
//
// When the average loss is zero the index saturates at 100, including the
// flat-market case where the average gain is also zero.
type RSI struct {
	period    int
	count     int
	prevClose float64
	gains     *Wilder
	losses    *Wilder
}

// NewRSI creates a new RSI indicator with the given period.
func NewRSI(period int) *RSI {
	return &RSI{
		period: period,
		gains:  NewWilder(period),
		losses: NewWilder(period),
	}
}

func (r *RSI) Name() string { return "RSI" }

func (r *RSI) Update(price float64) {
	r.count++
	if r.count == 1 {
		// First close: no delta yet
		r.prevClose = price
		return
	}

	delta := price - r.prevClose
	r.prevClose = price

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}
	r.gains.Update(gain)
	r.losses.Update(loss)
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return math.NaN()
	}
	return rsiFromAverages(r.gains.Value(), r.losses.Value())
}

func (r *RSI) Ready() bool { return r.losses.Ready() }

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}
