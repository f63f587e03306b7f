// Package stats provides the descriptive statistics used by the indicator
// and normality packages. Degenerate inputs yield NaN rather than an error.
package stats

import "math"

// Mean returns the arithmetic mean, NaN for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the sample standard deviation (N-1 denominator).
// Fewer than two values yields NaN.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// RollingMean returns the mean of every full window of size w.
// The result has len(xs)-w+1 elements, the first aligned to index w-1.
func RollingMean(xs []float64, w int) []float64 {
	return rolling(xs, w, Mean)
}

// RollingStdDev returns the sample standard deviation of every full window.
func RollingStdDev(xs []float64, w int) []float64 {
	return rolling(xs, w, StdDev)
}

// Each window is recomputed from scratch so results match a direct
// evaluation bit for bit.
func rolling(xs []float64, w int, fn func([]float64) float64) []float64 {
	if w <= 0 || w > len(xs) {
		return nil
	}
	out := make([]float64, 0, len(xs)-w+1)
	for i := w; i <= len(xs); i++ {
		out = append(out, fn(xs[i-w:i]))
	}
	return out
}

// Skewness returns the adjusted Fisher-Pearson sample skewness.
// Returns NaN for n < 3 or zero dispersion.
func Skewness(xs []float64) float64 {
	n := float64(len(xs))
	if len(xs) < 3 {
		return math.NaN()
	}
	m, sd := Mean(xs), StdDev(xs)
	if sd == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		z := (x - m) / sd
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// Kurtosis returns the bias-corrected sample excess kurtosis.
// Returns NaN for n < 4 or zero dispersion.
func Kurtosis(xs []float64) float64 {
	n := float64(len(xs))
	if len(xs) < 4 {
		return math.NaN()
	}
	m, sd := Mean(xs), StdDev(xs)
	if sd == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		z := (x - m) / sd
		z2 := z * z
		sum += z2 * z2
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// Sign returns 1, -1 or 0. NaN maps to 0.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
