// Package normality implements the Jarque-Bera test used to gate trading
// decisions on log-return regimes.
//
// Polarity: Safe reports true when the statistic EXCEEDS the critical value,
// that is when normality is rejected. Decisions are only taken in a
// non-normal regime.
package normality

import (
	"signaldesk/internal/model"
	"signaldesk/internal/stats"
)

// Chi-square(2) critical value at the 5% level.
const Critical95 = 3.84

// JarqueBera returns (n/6)*(skew^2 + kurt^2/4) using the bias-corrected
// sample skewness and excess kurtosis. NaN when either moment is undefined.
func JarqueBera(xs []float64) float64 {
	n := float64(len(xs))
	s := stats.Skewness(xs)
	k := stats.Kurtosis(xs)
	return n / 6 * (s*s + k*k/4)
}

// Rolling evaluates JarqueBera over every full window of s.
func Rolling(s model.Series, window int) model.Series {
	if window <= 0 || window > s.Len() {
		return model.NewSeries(s.Offset+window-1, nil)
	}
	out := make([]float64, 0, s.Len()-window+1)
	for i := window; i <= s.Len(); i++ {
		out = append(out, JarqueBera(s.Values[i-window:i]))
	}
	return model.NewSeries(s.Offset+window-1, out)
}

// Test is the regime gate over the most recent Window log returns.
type Test struct {
	Window   int     `yaml:"window" validate:"gt=3"`
	Critical float64 `yaml:"critical" validate:"gt=0"`
}

// DefaultTest uses the last 128 log returns at the 5% level.
func DefaultTest() Test {
	return Test{Window: 128, Critical: Critical95}
}

// Statistic returns JarqueBera over the last Window values of logRets.
// ok is false when fewer than Window values are available.
func (t Test) Statistic(logRets model.Series) (float64, bool) {
	if logRets.Len() < t.Window {
		return 0, false
	}
	return JarqueBera(logRets.Tail(t.Window)), true
}

// Safe reports whether the recent returns are non-normal. Insufficient
// history and undefined statistics fail closed.
func (t Test) Safe(logRets model.Series) bool {
	jb, ok := t.Statistic(logRets)
	return ok && jb > t.Critical
}
