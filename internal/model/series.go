package model

import "math"

// Series is a derived indicator series aligned to the candle sequence it was
// computed from. Values[i] belongs to candle index Offset+i.
// NaN entries are unavailable values.
type Series struct {
	Offset int
	Values []float64
}

// NewSeries builds a series starting at candle index offset.
func NewSeries(offset int, values []float64) Series {
	return Series{Offset: offset, Values: values}
}

// Len returns the number of values.
func (s Series) Len() int { return len(s.Values) }

// End returns the candle index one past the last value.
func (s Series) End() int { return s.Offset + len(s.Values) }

// At returns the value aligned to candle index idx.
func (s Series) At(idx int) (float64, bool) {
	i := idx - s.Offset
	if i < 0 || i >= len(s.Values) {
		return math.NaN(), false
	}
	return s.Values[i], true
}

// Latest returns the last value. ok is false when the series is empty or the
// last value is NaN.
func (s Series) Latest() (float64, bool) {
	if len(s.Values) == 0 {
		return math.NaN(), false
	}
	v := s.Values[len(s.Values)-1]
	return v, !math.IsNaN(v)
}

// Tail returns the last n values (fewer if the series is shorter).
func (s Series) Tail(n int) []float64 {
	if n >= len(s.Values) {
		return s.Values
	}
	return s.Values[len(s.Values)-n:]
}
